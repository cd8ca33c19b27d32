package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type xlsxRows struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	line   int
	cur    Row
	err    error
}

func openXLSX(r io.Reader) (*xlsxRows, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return &xlsxRows{file: f, rows: rows}, nil
}

func (x *xlsxRows) Next() bool {
	if x.err != nil {
		return false
	}
	for x.rows.Next() {
		x.line++
		// Raw values keep numbers and date serials free of display formatting.
		cells, err := x.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			x.err = fmt.Errorf("read row %d: %w", x.line, err)
			return false
		}
		if x.header == nil {
			x.header = normalizeHeaderRow(cells)
			continue
		}
		if row, ok := buildRow(x.line, x.header, cells); ok {
			x.cur = row
			return true
		}
	}
	if err := x.rows.Error(); err != nil {
		x.err = fmt.Errorf("read sheet: %w", err)
	}
	return false
}

func (x *xlsxRows) Row() Row   { return x.cur }
func (x *xlsxRows) Err() error { return x.err }

func (x *xlsxRows) Close() error {
	rerr := x.rows.Close()
	if err := x.file.Close(); err != nil {
		return err
	}
	return rerr
}
