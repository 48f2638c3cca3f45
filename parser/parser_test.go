package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mkravets/books-dataset/models"
)

const catalogueURL = "http://example.test/catalogue/"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "currency prefix", input: "£51.77", expected: 51.77},
		{name: "currency with space", input: "£ 99.99", expected: 99.99},
		{name: "plain number", input: "25.99", expected: 25.99},
		{name: "integer", input: "12", expected: 12},
		{name: "no digits", input: "free", expected: 0},
		{name: "empty", input: "", expected: 0},
		{name: "lone dot", input: "£.", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePrice(tt.input); got != tt.expected {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseAvailability(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantStatus    string
		wantAvailable int
	}{
		{name: "in stock with count", input: "In stock (22 available)", wantStatus: "In stock", wantAvailable: 22},
		{name: "in stock no count", input: "In stock", wantStatus: "In stock", wantAvailable: 0},
		{name: "out of stock", input: "Out of stock", wantStatus: "Out of stock", wantAvailable: 0},
		{name: "empty", input: "", wantStatus: "Out of stock", wantAvailable: 0},
		{name: "count without status", input: "(3 available)", wantStatus: "Out of stock", wantAvailable: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, available := ParseAvailability(tt.input)
			if status != tt.wantStatus || available != tt.wantAvailable {
				t.Errorf("ParseAvailability(%q) = (%q, %d), want (%q, %d)",
					tt.input, status, available, tt.wantStatus, tt.wantAvailable)
			}
		})
	}
}

func TestResolveBookURL(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		expected string
	}{
		{name: "relative prefixes", href: "../../../a-light-in-the-attic_1000/index.html", expected: catalogueURL + "a-light-in-the-attic_1000/index.html"},
		{name: "already relative to catalogue", href: "a-book_1/index.html", expected: catalogueURL + "a-book_1/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveBookURL(catalogueURL, tt.href); got != tt.expected {
				t.Errorf("ResolveBookURL(%q) = %q, want %q", tt.href, got, tt.expected)
			}
		})
	}
}

func TestParseListingPage(t *testing.T) {
	var builder strings.Builder
	builder.WriteString("<html><body>")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&builder, `<article class="product_pod"><h3><a href="../../book-%d/index.html">Book %d</a></h3></article>`, i, i)
	}
	// A pod without the link substructure must be skipped, not fail.
	builder.WriteString(`<article class="product_pod"><h3></h3></article>`)
	builder.WriteString("</body></html>")

	doc, err := NewDocument([]byte(builder.String()))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	urls := ParseListingPage(doc, catalogueURL)
	if len(urls) != 3 {
		t.Fatalf("urls = %d, want 3 (%v)", len(urls), urls)
	}
	for i, u := range urls {
		want := fmt.Sprintf("%sbook-%d/index.html", catalogueURL, i+1)
		if u != want {
			t.Errorf("urls[%d] = %q, want %q", i, u, want)
		}
	}
}

func detailPage(rating, availability string) string {
	return fmt.Sprintf(`<html><body>
<ul class="breadcrumb">
  <li><a href="/">Home</a></li>
  <li><a href="/books">Books</a></li>
  <li><a href="/poetry">Poetry</a></li>
  <li class="active">A Light in the Attic</li>
</ul>
<article class="product_page">
  <div class="product_main">
    <h1>A Light in the Attic</h1>
    %s
  </div>
  <div id="product_description" class="sub-header"><h2>Product Description</h2></div>
  <p>It's hard to imagine a world without A Light in the Attic.</p>
  <table class="table table-striped">
    <tr><th>UPC</th><td>a897fe39b1053632</td></tr>
    <tr><th>Product Type</th><td>Books</td></tr>
    <tr><th>Price (excl. tax)</th><td>£51.77</td></tr>
    <tr><th>Price (incl. tax)</th><td>£51.77</td></tr>
    <tr><th>Tax</th><td>£0.00</td></tr>
    <tr><th>Availability</th><td>%s</td></tr>
    <tr><th>Number of reviews</th><td>0</td></tr>
  </table>
</article>
</body></html>`, rating, availability)
}

func TestParseBookPage(t *testing.T) {
	bookURL := catalogueURL + "a-light-in-the-attic_1000/index.html"
	page := detailPage(`<p class="star-rating Three"></p>`, "In stock (22 available)")

	doc, err := NewDocument([]byte(page))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	book := ParseBookPage(doc, bookURL)

	if book.Title != "A Light in the Attic" {
		t.Errorf("title = %q", book.Title)
	}
	if book.Category != "Poetry" {
		t.Errorf("category = %q, want Poetry", book.Category)
	}
	if book.Rating != models.RatingThree {
		t.Errorf("rating = %d, want 3", book.Rating)
	}
	if book.PriceExclTax != 51.77 || book.PriceInclTax != 51.77 || book.Tax != 0 {
		t.Errorf("prices = %v/%v/%v", book.PriceExclTax, book.PriceInclTax, book.Tax)
	}
	if book.Price != book.PriceInclTax {
		t.Errorf("price %v must equal price incl. tax %v", book.Price, book.PriceInclTax)
	}
	if book.Availability != "In stock" || book.NumAvailable != 22 {
		t.Errorf("availability = %q/%d, want In stock/22", book.Availability, book.NumAvailable)
	}
	if book.NumReviews != 0 {
		t.Errorf("reviews = %d, want 0", book.NumReviews)
	}
	if book.UPC != "a897fe39b1053632" {
		t.Errorf("upc = %q", book.UPC)
	}
	if book.ProductType != "Books" {
		t.Errorf("product type = %q", book.ProductType)
	}
	if !strings.Contains(book.Description, "hard to imagine") {
		t.Errorf("description = %q", book.Description)
	}
	if book.BookURL != bookURL {
		t.Errorf("book url = %q, want %q", book.BookURL, bookURL)
	}
}

func TestParseBookPageRating(t *testing.T) {
	tests := []struct {
		name     string
		marker   string
		expected models.Rating
	}{
		{name: "four stars", marker: `<p class="star-rating Four"></p>`, expected: models.RatingFour},
		{name: "missing marker", marker: "", expected: models.RatingNone},
		{name: "unknown token", marker: `<p class="star-rating Eleven"></p>`, expected: models.RatingNone},
		{name: "constant token only", marker: `<p class="star-rating"></p>`, expected: models.RatingNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument([]byte(detailPage(tt.marker, "In stock")))
			if err != nil {
				t.Fatalf("new document: %v", err)
			}
			book := ParseBookPage(doc, "http://example.test/book")
			if book.Rating != tt.expected {
				t.Errorf("rating = %d, want %d", book.Rating, tt.expected)
			}
		})
	}
}

func TestParseBookPageOutOfStock(t *testing.T) {
	doc, err := NewDocument([]byte(detailPage(`<p class="star-rating One"></p>`, "Out of stock")))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	book := ParseBookPage(doc, "http://example.test/book")
	if book.Availability != "Out of stock" {
		t.Errorf("availability = %q, want Out of stock", book.Availability)
	}
	if book.NumAvailable != 0 {
		t.Errorf("num available = %d, want 0", book.NumAvailable)
	}
}

func TestParseBookPageDefaults(t *testing.T) {
	doc, err := NewDocument([]byte("<html><body><p>nothing to see</p></body></html>"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	bookURL := "http://example.test/empty"
	book := ParseBookPage(doc, bookURL)

	if book.Title != "" || book.Category != "" || book.UPC != "" || book.ProductType != "" || book.Description != "" {
		t.Errorf("string fields should default to empty: %+v", book)
	}
	if book.Rating != models.RatingNone {
		t.Errorf("rating = %d, want 0", book.Rating)
	}
	if book.Price != 0 || book.PriceExclTax != 0 || book.PriceInclTax != 0 || book.Tax != 0 {
		t.Errorf("prices should default to 0: %+v", book)
	}
	if book.Availability != "Out of stock" || book.NumAvailable != 0 || book.NumReviews != 0 {
		t.Errorf("availability fields should default: %+v", book)
	}
	if book.BookURL != bookURL {
		t.Errorf("book url = %q, want %q", book.BookURL, bookURL)
	}
}

func TestParseBookPageShortBreadcrumb(t *testing.T) {
	page := `<html><body>
<ul class="breadcrumb"><li>Home</li><li>Books</li></ul>
<div class="product_main"><h1>Orphan</h1></div>
</body></html>`

	doc, err := NewDocument([]byte(page))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	book := ParseBookPage(doc, "http://example.test/book")
	if book.Category != "" {
		t.Errorf("category = %q, want empty for short breadcrumb", book.Category)
	}
}

func TestParseBookPageDescriptionMissingSibling(t *testing.T) {
	page := `<html><body>
<article class="product_page">
  <div class="product_main"><h1>No Blurb</h1></div>
  <div id="product_description"><h2>Product Description</h2></div>
</article>
</body></html>`

	doc, err := NewDocument([]byte(page))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	book := ParseBookPage(doc, "http://example.test/book")
	if book.Description != "" {
		t.Errorf("description = %q, want empty when sibling paragraph is missing", book.Description)
	}
}
