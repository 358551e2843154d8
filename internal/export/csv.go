// Package export writes cleaned tables to disk.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KaramelBytes/finclean-cli/internal/table"
	"github.com/KaramelBytes/finclean-cli/internal/utils"
)

// Options configures CSV writing behavior.
type Options struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
}

// Write renders t as CSV: a header row of column names, then one record per
// row. Numbers use the shortest representation that round-trips and nulls
// render as empty fields.
func Write(w io.Writer, t table.Table, opt Options) error {
	if opt.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range t.Records() {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteFile writes t to path atomically, creating parent directories.
func WriteFile(path string, t table.Table, opt Options) error {
	var buf bytes.Buffer
	if err := Write(&buf, t, opt); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
