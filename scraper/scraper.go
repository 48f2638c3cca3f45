// Package scraper implements the two-stage crawl: enumerate detail-page URLs
// across the paginated catalogue, then scrape each detail page into a record.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkravets/books-dataset/config"
	"github.com/mkravets/books-dataset/models"
	"github.com/mkravets/books-dataset/parser"
	"github.com/mkravets/books-dataset/pipeline"
)

// Scraper drives the crawl and keeps per-run error bookkeeping.
type Scraper struct {
	cfg     *config.Config
	fetcher *Fetcher
	Metrics *Metrics

	pagesCrawled int
	errorCount   int
	failedURLs   []string
	errorsByType map[string]int
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	metrics := NewMetrics()
	fetcher, err := NewFetcher(cfg, metrics)
	if err != nil {
		return nil, err
	}
	return &Scraper{
		cfg:          cfg,
		fetcher:      fetcher,
		Metrics:      metrics,
		errorsByType: make(map[string]int),
	}, nil
}

// EnumerateBookURLs walks catalogue pages 1..MaxPages in order and collects
// the detail-page URLs they reference. Pages that fail to fetch contribute
// nothing; the walk continues with the next page number. Duplicate URLs are
// preserved.
func (s *Scraper) EnumerateBookURLs(ctx context.Context) []string {
	catalogueURL := s.cfg.CatalogueURL()
	var urls []string

	for page := 1; page <= s.cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			break
		}

		pageURL := fmt.Sprintf("%spage-%d.html", catalogueURL, page)
		body, err := s.fetcher.Fetch(pageURL)
		if err != nil {
			s.recordError(pageURL, err)
			slog.Warn("catalogue page fetch failed",
				slog.Int("page", page),
				slog.String("url", pageURL),
				slog.Any("error", err),
			)
			continue
		}

		doc, err := parser.NewDocument(body)
		if err != nil {
			s.recordError(pageURL, err)
			continue
		}

		found := parser.ParseListingPage(doc, catalogueURL)
		urls = append(urls, found...)
		s.pagesCrawled++
		s.Metrics.IncPages()
		slog.Debug("catalogue page crawled",
			slog.Int("page", page),
			slog.Int("books", len(found)),
		)
	}

	return urls
}

// ScrapeBook fetches and parses one detail page. ok is false when the fetch
// failed; missing page structure never fails the scrape, the affected fields
// just keep their defaults.
func (s *Scraper) ScrapeBook(bookURL string) (b *models.Book, ok bool) {
	body, err := s.fetcher.Fetch(bookURL)
	if err != nil {
		s.recordError(bookURL, err)
		slog.Warn("detail page fetch failed",
			slog.String("url", bookURL),
			slog.Any("error", err),
		)
		return nil, false
	}

	doc, err := parser.NewDocument(body)
	if err != nil {
		s.recordError(bookURL, err)
		return nil, false
	}

	s.Metrics.IncBooks()
	return parser.ParseBookPage(doc, bookURL), true
}

// Run executes both crawl stages and streams records through the pipeline in
// discovery order.
func (s *Scraper) Run(ctx context.Context, p *pipeline.Pipeline) (*models.CrawlResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	urls := s.EnumerateBookURLs(ctx)
	slog.Info("enumeration complete",
		slog.Int("urls", len(urls)),
		slog.Int("pages", s.cfg.MaxPages),
	)

	scraped := 0
	for i, bookURL := range urls {
		if ctx.Err() != nil {
			break
		}
		book, ok := s.ScrapeBook(bookURL)
		if !ok {
			continue
		}
		scraped++
		if err := p.Process(book); err != nil && err != pipeline.ErrPipelineClosed {
			slog.Error("pipeline process error", slog.Any("error", err))
		}
		if (i+1)%50 == 0 {
			slog.Info("scrape progress",
				slog.Int("done", i+1),
				slog.Int("total", len(urls)),
				slog.Int("scraped", scraped),
			)
		}
	}

	result := &models.CrawlResult{
		StartTime:      start,
		EndTime:        time.Now(),
		PagesCrawled:   s.pagesCrawled,
		URLsDiscovered: len(urls),
		BooksScraped:   scraped,
		RequestCount:   s.fetcher.RequestCount(),
		ErrorCount:     s.errorCount,
		FailedURLs:     append([]string(nil), s.failedURLs...),
		ErrorsByType:   snapshotErrors(s.errorsByType),
	}
	return result, nil
}

func (s *Scraper) recordError(url string, err error) {
	category := errorTypeLabel(err)
	s.errorCount++
	s.errorsByType[category]++
	s.failedURLs = append(s.failedURLs, url)
	s.Metrics.IncError(category)
}

func snapshotErrors(byType map[string]int) map[string]int {
	out := make(map[string]int, len(byType))
	for k, v := range byType {
		out[k] = v
	}
	return out
}
