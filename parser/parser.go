// Package parser extracts book data from fetched catalogue and detail pages.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mkravets/books-dataset/models"
)

var (
	numberRun    = regexp.MustCompile(`[\d.]+`)
	availableFmt = regexp.MustCompile(`\((\d+) available\)`)
)

// Product Information table keys recognized on a detail page. Anything else
// in the table is ignored.
const (
	keyUPC          = "UPC"
	keyProductType  = "Product Type"
	keyPriceExclTax = "Price (excl. tax)"
	keyPriceInclTax = "Price (incl. tax)"
	keyTax          = "Tax"
	keyAvailability = "Availability"
	keyNumReviews   = "Number of reviews"
)

// NewDocument parses a fetched body into a queryable document.
func NewDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ParseListingPage returns the detail-page URLs referenced by one catalogue
// page, left to right. Listing elements without a link are skipped.
func ParseListingPage(doc *goquery.Document, catalogueURL string) []string {
	var urls []string
	doc.Find("article.product_pod").Each(func(_ int, pod *goquery.Selection) {
		href, ok := pod.Find("h3 a").First().Attr("href")
		if !ok || href == "" {
			return
		}
		urls = append(urls, ResolveBookURL(catalogueURL, href))
	})
	return urls
}

// ResolveBookURL turns a listing href into an absolute detail-page URL by
// dropping relative-path prefixes and joining with the catalogue root.
func ResolveBookURL(catalogueURL, href string) string {
	return catalogueURL + strings.ReplaceAll(href, "../", "")
}

// ParseBookPage extracts the full field set from one detail page. Missing
// structure never fails the parse; the affected fields keep their defaults.
func ParseBookPage(doc *goquery.Document, bookURL string) *models.Book {
	return buildBook(doc, productInfo(doc), bookURL)
}

// productInfo flattens the Product Information table into a header->value map.
func productInfo(doc *goquery.Document) map[string]string {
	info := make(map[string]string)
	doc.Find("table.table-striped tr").Each(func(_ int, row *goquery.Selection) {
		header := strings.TrimSpace(row.Find("th").First().Text())
		if header == "" {
			return
		}
		info[header] = strings.TrimSpace(row.Find("td").First().Text())
	})
	return info
}

// buildBook is the single place where field defaults are applied. Every field
// not found in the document or the info map keeps its zero-equivalent default.
func buildBook(doc *goquery.Document, info map[string]string, bookURL string) *models.Book {
	book := &models.Book{
		Title:        strings.TrimSpace(doc.Find("div.product_main h1").First().Text()),
		Category:     breadcrumbCategory(doc),
		Rating:       starRating(doc),
		PriceExclTax: ParsePrice(info[keyPriceExclTax]),
		PriceInclTax: ParsePrice(info[keyPriceInclTax]),
		Tax:          ParsePrice(info[keyTax]),
		NumReviews:   parseCount(info[keyNumReviews]),
		UPC:          info[keyUPC],
		ProductType:  info[keyProductType],
		Description:  description(doc),
		BookURL:      bookURL,
	}
	book.Price = book.PriceInclTax
	book.Availability, book.NumAvailable = ParseAvailability(info[keyAvailability])
	return book
}

// breadcrumbCategory returns the third breadcrumb segment
// (Home > Books > Category > Title), or "" when the trail is short.
func breadcrumbCategory(doc *goquery.Document) string {
	crumbs := doc.Find("ul.breadcrumb li")
	if crumbs.Length() < 3 {
		return ""
	}
	return strings.TrimSpace(crumbs.Eq(2).Text())
}

// starRating maps the non-constant class token of the rating marker
// ("star-rating Three") to a Rating.
func starRating(doc *goquery.Document) models.Rating {
	marker := doc.Find("p.star-rating").First()
	if marker.Length() == 0 {
		return models.RatingNone
	}
	class, _ := marker.Attr("class")
	for _, token := range strings.Fields(class) {
		if token == "star-rating" {
			continue
		}
		return models.RatingFromToken(token)
	}
	return models.RatingNone
}

// ParsePrice extracts the numeric value from a currency-prefixed string such
// as "£51.77". Strings without a digit run parse to 0.
func ParsePrice(raw string) float64 {
	run := numberRun.FindString(raw)
	if run == "" {
		return 0
	}
	value, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0
	}
	return value
}

// ParseAvailability derives the stock status and the parenthesized unit count
// from the raw availability value, e.g. "In stock (22 available)".
func ParseAvailability(raw string) (string, int) {
	status := "Out of stock"
	if strings.Contains(raw, "In stock") {
		status = "In stock"
	}
	match := availableFmt.FindStringSubmatch(raw)
	if match == nil {
		return status, 0
	}
	count, err := strconv.Atoi(match[1])
	if err != nil {
		return status, 0
	}
	return status, count
}

func parseCount(raw string) int {
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// description takes the text of the paragraph following the description
// anchor inside the product page block.
func description(doc *goquery.Document) string {
	page := doc.Find("article.product_page").First()
	if page.Length() == 0 {
		return ""
	}
	anchor := page.Find("div#product_description").First()
	if anchor.Length() == 0 {
		return ""
	}
	next := anchor.NextAllFiltered("p").First()
	if next.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(next.Text())
}
