// Package spreadsheet turns the first sheet of an uploaded workbook into a
// sequence of header-keyed rows.
package spreadsheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies a supported spreadsheet encoding.
type Format string

const (
	FormatXLSX Format = ".xlsx"
	FormatCSV  Format = ".csv"
)

// FormatFromName returns the format implied by the file extension.
func FormatFromName(name string) (Format, bool) {
	switch Format(strings.ToLower(filepath.Ext(name))) {
	case FormatXLSX:
		return FormatXLSX, true
	case FormatCSV:
		return FormatCSV, true
	}
	return "", false
}

// Row is one data row keyed by lower-cased header name. Number is the
// 1-based sheet row, the header being row 1.
type Row struct {
	Number int
	values map[string]string
}

func NewRow(number int, values map[string]string) Row {
	r := Row{Number: number, values: make(map[string]string, len(values))}
	for k, v := range values {
		r.values[normalizeHeader(k)] = v
	}
	return r
}

// Get returns the trimmed cell under the given header, case-insensitively.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.values[normalizeHeader(column)])
}

func (r Row) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Rows is a forward-only iterator. Next advances to the next non-blank row;
// after it returns false, Err reports any decode failure.
type Rows interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

// Open decodes r as the given format. An unreadable workbook is reported
// here; failures discovered mid-sheet are reported by Rows.Err.
func Open(r io.Reader, format Format) (Rows, error) {
	switch format {
	case FormatXLSX:
		rows, err := openXLSX(r)
		if err != nil {
			return nil, err
		}
		return rows, nil
	case FormatCSV:
		rows, err := openCSV(r)
		if err != nil {
			return nil, err
		}
		return rows, nil
	}
	return nil, fmt.Errorf("unsupported spreadsheet format %q", format)
}

// ReadAll drains rows. It is meant for small sheets and tests.
func ReadAll(rows Rows) ([]Row, error) {
	defer rows.Close()
	var out []Row
	for rows.Next() {
		out = append(out, rows.Row())
	}
	return out, rows.Err()
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// buildRow zips a header with cells, returning ok=false for a blank row.
func buildRow(number int, header, cells []string) (Row, bool) {
	values := make(map[string]string, len(header))
	blank := true
	for i, name := range header {
		if name == "" {
			continue
		}
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if strings.TrimSpace(cell) != "" {
			blank = false
		}
		values[name] = cell
	}
	if blank {
		return Row{}, false
	}
	return Row{Number: number, values: values}, true
}

func normalizeHeaderRow(cells []string) []string {
	header := make([]string, len(cells))
	for i, c := range cells {
		header[i] = normalizeHeader(c)
	}
	return header
}
