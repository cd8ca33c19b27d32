package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

type csvRows struct {
	reader *csv.Reader
	header []string
	line   int
	cur    Row
	err    error
}

func openCSV(r io.Reader) (*csvRows, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &csvRows{reader: reader, line: 0}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return &csvRows{reader: reader, header: normalizeHeaderRow(header), line: 1}, nil
}

func (c *csvRows) Next() bool {
	if c.err != nil || c.header == nil {
		return false
	}
	for {
		record, err := c.reader.Read()
		if errors.Is(err, io.EOF) {
			return false
		}
		c.line++
		if err != nil {
			c.err = fmt.Errorf("read csv row %d: %w", c.line, err)
			return false
		}
		if row, ok := buildRow(c.line, c.header, record); ok {
			c.cur = row
			return true
		}
	}
}

func (c *csvRows) Row() Row     { return c.cur }
func (c *csvRows) Err() error   { return c.err }
func (c *csvRows) Close() error { return nil }
