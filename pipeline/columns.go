package pipeline

import (
	"strconv"

	"github.com/mkravets/books-dataset/models"
)

// columnHeaders is the presentation header row of the output artifact. It is
// 1:1 and order-preserving with the cells produced by bookCells/bookRow.
var columnHeaders = []string{
	"Title",
	"Category",
	"Rating (1-5)",
	"Price (£)",
	"Price excl. tax (£)",
	"Price incl. tax (£)",
	"Tax (£)",
	"Availability",
	"Copies available",
	"Reviews",
	"UPC",
	"Product type",
	"Description",
	"Page URL",
}

// bookCells returns one output row with native cell types, for writers that
// distinguish text from numbers.
func bookCells(b *models.Book) []interface{} {
	return []interface{}{
		b.Title,
		b.Category,
		b.Rating.Int(),
		b.Price,
		b.PriceExclTax,
		b.PriceInclTax,
		b.Tax,
		b.Availability,
		b.NumAvailable,
		b.NumReviews,
		b.UPC,
		b.ProductType,
		b.Description,
		b.BookURL,
	}
}

// bookRow returns one output row with every cell rendered as a string.
func bookRow(b *models.Book) []string {
	return []string{
		b.Title,
		b.Category,
		strconv.Itoa(b.Rating.Int()),
		formatPrice(b.Price),
		formatPrice(b.PriceExclTax),
		formatPrice(b.PriceInclTax),
		formatPrice(b.Tax),
		b.Availability,
		strconv.Itoa(b.NumAvailable),
		strconv.Itoa(b.NumReviews),
		b.UPC,
		b.ProductType,
		b.Description,
		b.BookURL,
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
