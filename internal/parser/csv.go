package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/KaramelBytes/finclean-cli/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidateDelimiters are tried by sniffDelimiter in tie-break order.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

type csvReader struct{}

func (csvReader) CanRead(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv", ".txt":
		return true
	}
	return false
}

func (csvReader) Read(path string, opt Options) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		opt.Delimiter = '\t'
	}
	return ReadCSV(f, filepath.Base(path), opt)
}

// encodingAliases maps every accepted source encoding name to its canonical form.
var encodingAliases = map[string]string{
	"":             "utf-8",
	"utf-8":        "utf-8",
	"utf8":         "utf-8",
	"windows-1252": "windows-1252",
	"cp1252":       "windows-1252",
	"macintosh":    "macintosh",
	"mac-roman":    "macintosh",
	"macroman":     "macintosh",
}

// CanonicalEncoding resolves an encoding name or alias, case-insensitively.
func CanonicalEncoding(name string) (string, bool) {
	c, ok := encodingAliases[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Decoder returns the text decoder for a named source encoding.
func Decoder(name string) (*encoding.Decoder, error) {
	c, ok := CanonicalEncoding(name)
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	switch c {
	case "windows-1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "macintosh":
		return charmap.Macintosh.NewDecoder(), nil
	}
	return xunicode.UTF8.NewDecoder(), nil
}

// ReadCSV parses delimited text into a raw table. Input is decoded to UTF-8,
// NFKC-normalized and stripped of a leading byte order mark. Short rows are
// padded with nulls and blank cells load as null.
func ReadCSV(r io.Reader, name string, opt Options) (table.Table, error) {
	dec, err := Decoder(opt.Encoding)
	if err != nil {
		return table.Table{}, err
	}
	data, err := io.ReadAll(transform.NewReader(r, transform.Chain(dec, norm.NFKC)))
	if err != nil {
		return table.Table{}, fmt.Errorf("decode %s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(firstLine(data))
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = delim

	// Read header
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table.Table{Name: name}, nil
		}
		return table.Table{}, fmt.Errorf("read header: %w", err)
	}
	var records [][]string
	for opt.MaxRows <= 0 || len(records) < opt.MaxRows {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table.Table{}, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return table.FromRecords(name, header, records), nil
}

func firstLine(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	return string(data)
}

// sniffDelimiter picks the candidate that occurs most often in the header line
// outside double quotes. Comma wins ties and empty headers.
func sniffDelimiter(line string) rune {
	counts := make(map[rune]int, len(candidateDelimiters))
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}
	best, bestN := ',', 0
	for _, d := range candidateDelimiters {
		if counts[d] > bestN {
			best, bestN = d, counts[d]
		}
	}
	return best
}
