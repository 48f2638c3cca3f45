// Package models defines data structures for the crawler.
package models

import "time"

// Rating is a book's star rating on the 0-5 scale. Zero means the rating
// marker was missing or carried an unknown token.
type Rating int

// Valid ratings.
const (
	RatingNone Rating = iota
	RatingOne
	RatingTwo
	RatingThree
	RatingFour
	RatingFive
)

// RatingFromToken maps the site's class-token vocabulary to a Rating.
// Unknown tokens map to RatingNone.
func RatingFromToken(token string) Rating {
	switch token {
	case "One":
		return RatingOne
	case "Two":
		return RatingTwo
	case "Three":
		return RatingThree
	case "Four":
		return RatingFour
	case "Five":
		return RatingFive
	default:
		return RatingNone
	}
}

// Int returns the rating as a plain integer.
func (r Rating) Int() int {
	return int(r)
}

// Book is the extracted, normalized field set for one detail page.
// Price always equals PriceInclTax; it is assigned, never derived twice.
type Book struct {
	Title        string  `csv:"title" json:"title"`
	Category     string  `csv:"category" json:"category"`
	Rating       Rating  `csv:"rating" json:"rating"`
	Price        float64 `csv:"price" json:"price"`
	PriceExclTax float64 `csv:"price_excl_tax" json:"price_excl_tax"`
	PriceInclTax float64 `csv:"price_incl_tax" json:"price_incl_tax"`
	Tax          float64 `csv:"tax" json:"tax"`
	Availability string  `csv:"availability" json:"availability"`
	NumAvailable int     `csv:"num_available" json:"num_available"`
	NumReviews   int     `csv:"num_reviews" json:"num_reviews"`
	UPC          string  `csv:"upc" json:"upc"`
	ProductType  string  `csv:"product_type" json:"product_type"`
	Description  string  `csv:"description" json:"description"`
	BookURL      string  `csv:"book_url" json:"book_url"`
}

// CrawlResult holds the overall result of one crawl run.
type CrawlResult struct {
	StartTime      time.Time
	EndTime        time.Time
	PagesCrawled   int
	URLsDiscovered int
	BooksScraped   int
	RequestCount   int
	ErrorCount     int
	FailedURLs     []string
	ErrorsByType   map[string]int
}
