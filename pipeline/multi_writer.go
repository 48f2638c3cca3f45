package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mkravets/books-dataset/models"
)

// MultiWriter fans every batch out to all underlying writers.
type MultiWriter struct {
	writers []OutputWriter
	mu      sync.Mutex
}

// NewMultiWriter wraps the given writers. At least one is required.
func NewMultiWriter(writers ...OutputWriter) (*MultiWriter, error) {
	if len(writers) == 0 {
		return nil, fmt.Errorf("multi writer needs at least one writer")
	}
	return &MultiWriter{writers: writers}, nil
}

// Write writes books to every underlying writer, stopping at the first error.
func (mw *MultiWriter) Write(books []*models.Book) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	for _, w := range mw.writers {
		if err := w.Write(books); err != nil {
			return fmt.Errorf("multi write: %w", err)
		}
	}
	return nil
}

// Close closes every writer and joins their errors.
func (mw *MultiWriter) Close() error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	var errs []error
	for _, w := range mw.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate validates every underlying writer.
func (mw *MultiWriter) Validate() error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
