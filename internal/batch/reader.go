package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported batch file format")

// Row is one payment record read from a batch file.
// Number counts data rows from 1; the header row is not counted.
type Row struct {
	Number int
	Record map[string]any
}

// ReadFile reads payment records from a .csv or .xlsx file
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV reads records from comma separated text with a header row
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	return toRows(lines)
}

// ReadXLSX reads records from the first sheet of a workbook
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	lines, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return toRows(lines)
}

// toRows maps every line after the header to a record keyed by header name.
// Blank cells are left out of the record and blank lines are skipped.
func toRows(lines [][]string) ([]Row, error) {
	if len(lines) == 0 {
		return nil, errors.New("batch file is empty")
	}

	header := make([]string, len(lines[0]))
	for i, name := range lines[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	var rows []Row
	for i, line := range lines[1:] {
		record := make(map[string]any)
		for col, cell := range line {
			if col >= len(header) || header[col] == "" {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				record[header[col]] = cell
			}
		}
		if len(record) == 0 {
			continue
		}
		rows = append(rows, Row{Number: i + 1, Record: record})
	}

	return rows, nil
}
