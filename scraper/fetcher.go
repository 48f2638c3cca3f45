package scraper

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mkravets/books-dataset/config"
)

// Request context keys used to hand results back to the blocking Fetch call.
const (
	ctxKeyStart = "start"
	ctxKeyBody  = "body"
	ctxKeyErr   = "err"
)

// Fetcher issues sequential GET requests with a politeness gap between them,
// a randomized User-Agent, and a small body cache so a URL referenced from
// several catalogue pages is fetched only once.
type Fetcher struct {
	cfg       *config.Config
	collector *colly.Collector
	cache     *lru.Cache[string, []byte]
	metrics   *Metrics

	requestCount int
}

// NewFetcher builds a fetcher configured from cfg.
func NewFetcher(cfg *config.Config, metrics *Metrics) (*Fetcher, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})
	extensions.RandomUserAgent(collector)

	// Parallelism stays at 1: the crawl is strictly sequential and the limit
	// rule only enforces the 0.3-1.0s gap between consecutive requests.
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	cache, err := lru.New[string, []byte](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create body cache: %w", err)
	}

	f := &Fetcher{
		cfg:       cfg,
		collector: collector,
		cache:     cache,
		metrics:   metrics,
	}
	f.configureHandlers()
	return f, nil
}

func (f *Fetcher) configureHandlers() {
	f.collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put(ctxKeyStart, time.Now())
		f.requestCount++
	})

	f.collector.OnResponse(func(r *colly.Response) {
		if capture, ok := r.Request.Ctx.GetAny(ctxKeyBody).(*[]byte); ok {
			*capture = r.Body
		}
		f.metrics.IncRequest("success")
		if start, ok := r.Request.Ctx.GetAny(ctxKeyStart).(time.Time); ok {
			f.metrics.ObserveDuration(time.Since(start))
		}
	})

	f.collector.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
		}
		classified := classifyError(err, statusCode)
		if r != nil && r.Request != nil {
			if capture, ok := r.Request.Ctx.GetAny(ctxKeyErr).(*error); ok {
				*capture = classified
			}
		}
		f.metrics.IncRequest("error")
	})
}

// Fetch issues a blocking GET for pageURL and returns the response body.
// Transport failures and non-success statuses come back as classified errors.
func (f *Fetcher) Fetch(pageURL string) ([]byte, error) {
	if body, ok := f.cache.Get(pageURL); ok {
		f.metrics.IncCacheHit()
		return body, nil
	}

	var body []byte
	var fetchErr error
	ctx := colly.NewContext()
	ctx.Put(ctxKeyBody, &body)
	ctx.Put(ctxKeyErr, &fetchErr)

	err := f.collector.Request(http.MethodGet, pageURL, nil, ctx, nil)
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err != nil {
		return nil, classifyError(err, 0)
	}

	f.cache.Add(pageURL, body)
	return body, nil
}

// RequestCount reports the number of requests that went out on the wire;
// cache hits are not counted.
func (f *Fetcher) RequestCount() int {
	return f.requestCount
}
