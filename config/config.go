package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds crawler configuration.
type Config struct {
	BaseURL       string
	CataloguePath string
	MaxPages      int
	Timeout       time.Duration
	Delay         time.Duration
	RandomDelay   time.Duration
	CacheSize     int

	OutputFile   string
	OutputFormat string // xlsx, csv, json, or multi

	PipelineBufferSize int
	BatchSize          int

	UserAgent        string
	RespectRobotsTxt bool
	MetricsAddr      string
	Verbose          bool
}

// DefaultConfig returns conservative defaults for the demo target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://books.toscrape.com/",
		CataloguePath:      "catalogue/",
		MaxPages:           10,
		Timeout:            15 * time.Second,
		Delay:              300 * time.Millisecond,
		RandomDelay:        700 * time.Millisecond,
		CacheSize:          256,
		OutputFile:         "output/books.xlsx",
		OutputFormat:       "xlsx",
		PipelineBufferSize: 256,
		BatchSize:          32,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		RespectRobotsTxt:   false,
		MetricsAddr:        "",
		Verbose:            false,
	}
}

// CatalogueURL returns the absolute catalogue root, with a trailing slash.
func (c *Config) CatalogueURL() string {
	base := c.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + c.CataloguePath
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.CataloguePath == "" {
		return fmt.Errorf("catalogue path cannot be empty")
	}
	if !strings.HasSuffix(c.CataloguePath, "/") {
		return fmt.Errorf("catalogue path must end with a slash")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	switch c.OutputFormat {
	case "xlsx", "csv", "json", "multi":
	default:
		return fmt.Errorf("output format must be xlsx, csv, json, or multi")
	}
	if c.PipelineBufferSize <= 0 {
		return fmt.Errorf("pipeline buffer size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
