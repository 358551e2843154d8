// Package parser loads raw statement tables from delimited text and Excel
// workbooks. Readers only split cells; every value comes back as raw text or
// null and interpretation is left to the cleaning pipeline.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/finclean-cli/internal/table"
)

// ErrUnsupported indicates a file type no registered reader handles.
var ErrUnsupported = errors.New("unsupported table format")

// Options controls how files are read.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t', '|'.
	Delimiter rune
	// Encoding of delimited text: "utf-8" (default), "windows-1252" or "macintosh".
	Encoding string
	// SheetName selects a worksheet by name; it wins over SheetIndex.
	SheetName string
	// SheetIndex is 1-based; 0 means the first sheet.
	SheetIndex int
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// Reader loads one raw table from a file on disk.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (table.Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// Supported reports whether some registered reader accepts the file name.
func Supported(path string) bool {
	return lookup(path) != nil
}

func lookup(path string) Reader {
	for _, r := range registry {
		if r.CanRead(path) {
			return r
		}
	}
	return nil
}

// ReadFile selects a reader based on filename and returns the raw table.
// The table is named after the file's base name.
func ReadFile(path string, opt Options) (table.Table, error) {
	r := lookup(path)
	if r == nil {
		return table.Table{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if _, err := os.Stat(path); err != nil {
		return table.Table{}, fmt.Errorf("stat %s: %w", path, err)
	}
	t, err := r.Read(path, opt)
	if err != nil {
		return table.Table{}, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

func init() {
	// Register default readers
	Register(csvReader{})
	Register(xlsxReader{})
}
