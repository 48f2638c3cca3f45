package pipeline

import (
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/mkravets/books-dataset/models"
)

const sheetName = "Books"

// XLSXWriter writes records to an Excel workbook. Rows accumulate in memory
// and the workbook is saved on Close.
type XLSXWriter struct {
	path    string
	file    *excelize.File
	nextRow int
	mu      sync.Mutex
}

// NewXLSXWriter initialises the workbook and writes the header row.
func NewXLSXWriter(filename string) (*XLSXWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.GetSheetIndex("Sheet1")
	if err == nil && index >= 0 {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := make([]interface{}, len(columnHeaders))
	for i, h := range columnHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}

	return &XLSXWriter{
		path:    filename,
		file:    f,
		nextRow: 2,
	}, nil
}

// Write appends books as worksheet rows. Numeric fields stay numeric cells.
func (xw *XLSXWriter) Write(books []*models.Book) error {
	xw.mu.Lock()
	defer xw.mu.Unlock()

	for _, book := range books {
		cell, err := excelize.CoordinatesToCellName(1, xw.nextRow)
		if err != nil {
			return fmt.Errorf("xlsx cell name: %w", err)
		}
		row := bookCells(book)
		if err := xw.file.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row: %w", err)
		}
		xw.nextRow++
	}
	return nil
}

// Close saves the workbook to disk and releases it.
func (xw *XLSXWriter) Close() error {
	xw.mu.Lock()
	defer xw.mu.Unlock()

	if err := xw.file.SaveAs(xw.path); err != nil {
		xw.file.Close()
		return fmt.Errorf("save xlsx file: %w", err)
	}
	return xw.file.Close()
}

// Validate ensures at least one data row was written.
func (xw *XLSXWriter) Validate() error {
	xw.mu.Lock()
	defer xw.mu.Unlock()

	if xw.nextRow <= 2 {
		return fmt.Errorf("xlsx workbook has no data rows")
	}
	return nil
}
