package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/KaramelBytes/finclean-cli/internal/table"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func (xlsxReader) Read(path string, opt Options) (table.Table, error) {
	return ReadXLSX(path, opt)
}

// ReadXLSX loads one worksheet. The first row is the header; cells are read
// as their formatted display text, so "1,200.50" in Excel arrives as it looks.
func ReadXLSX(path string, opt Options) (table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return table.Table{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return table.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	name := filepath.Base(path)
	if len(rows) == 0 {
		return table.Table{Name: name}, nil
	}
	header := normalizeRow(rows[0])
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}
		records = append(records, normalizeRow(row))
	}
	return table.FromRecords(name, header, records), nil
}

// SheetNames lists the worksheets of a workbook in order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func pickSheet(sheets []string, name string, index int) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found (have %s)", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (1..%d)", index, len(sheets))
	}
	return sheets[index-1], nil
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = norm.NFKC.String(v)
	}
	return out
}
