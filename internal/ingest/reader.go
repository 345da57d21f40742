//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package ingest parses the delimited inventory export into staging
// records aligned with the catalog column order.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pgEdge/pgedge-inventory/internal/catalog"
	"github.com/pgEdge/pgedge-inventory/internal/logging"
)

var (
	// ErrNoHeader is returned for input without a header row.
	ErrNoHeader = errors.New("input has no header row")

	// ErrNoRecognizedColumns is returned when the header names none of the
	// expected columns, which usually means the delimiter is wrong.
	ErrNoRecognizedColumns = errors.New("header contains none of the expected columns")

	// ErrInvalidEncoding is returned when the input cannot be decoded.
	ErrInvalidEncoding = errors.New("input is not valid text in the configured encoding")

	// ErrUnsupportedEncoding is returned for an unknown encoding name.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

// Supported source encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingLatin1      = "iso-8859-1"
)

// Options control parsing.
type Options struct {
	// Delimiter separates fields. Zero means ';'.
	Delimiter rune

	// Encoding names the source encoding. Empty means UTF-8. A byte order
	// mark always wins over this setting.
	Encoding string
}

// DefaultOptions returns the options for the standard inventory export.
func DefaultOptions() Options {
	return Options{Delimiter: ';', Encoding: EncodingUTF8}
}

// Record is one data row. Values are aligned with catalog.Columns.
type Record struct {
	// Line is the 1-based line the record starts on.
	Line int

	Values []string
}

// Get returns the value of a CSV column, or "" for an unknown name.
func (r Record) Get(column string) string {
	i, ok := catalog.ColumnIndex(column)
	if !ok || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// Empty reports whether every value is empty.
func (r Record) Empty() bool {
	for _, v := range r.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// Result is the outcome of parsing one file.
type Result struct {
	Records []Record

	// Skipped counts rows where every field was empty.
	Skipped int

	// Recognized lists the expected columns found in the header.
	Recognized []string

	// Missing lists expected columns absent from the header; their values
	// are empty in every record.
	Missing []string

	// Ignored lists header cells that are not expected columns.
	Ignored []string
}

// Read parses an inventory export. Columns are resolved by header name,
// values are trimmed and NFC-normalized, and all-empty rows are skipped.
func Read(r io.Reader, opts Options) (*Result, error) {
	decoded, err := decoder(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.Comma = opts.Delimiter
	if cr.Comma == 0 {
		cr.Comma = ';'
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, readError(err)
	}

	res := &Result{}
	colIx := resolveHeader(header, res)
	if len(res.Recognized) == 0 {
		return nil, fmt.Errorf("%w (delimiter %q)", ErrNoRecognizedColumns, cr.Comma)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		line, _ := cr.FieldPos(0)

		record := Record{Line: line, Values: make([]string, len(catalog.Columns))}
		for t, si := range colIx {
			if si < 0 || si >= len(rec) {
				continue
			}
			record.Values[t] = cleanValue(rec[si])
		}

		if record.Empty() {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, record)
	}

	logging.Debug().
		Int("records", len(res.Records)).
		Int("skipped", res.Skipped).
		Strs("missing", res.Missing).
		Strs("ignored", res.Ignored).
		Msg("Parsed inventory file")

	return res, nil
}

// resolveHeader maps each catalog column to its index in the header, or -1.
// The first occurrence of a duplicated header wins.
func resolveHeader(header []string, res *Result) []int {
	colIx := make([]int, len(catalog.Columns))
	for i := range colIx {
		colIx[i] = -1
	}

	for i, h := range header {
		// a stray BOM left by an upstream re-encode
		h = strings.TrimPrefix(strings.TrimSpace(h), "\uFEFF")
		t, ok := catalog.ColumnIndex(h)
		if !ok {
			if h != "" {
				res.Ignored = append(res.Ignored, h)
			}
			continue
		}
		if colIx[t] < 0 {
			colIx[t] = i
		}
	}

	for t, si := range colIx {
		if si < 0 {
			res.Missing = append(res.Missing, catalog.Columns[t])
		} else {
			res.Recognized = append(res.Recognized, catalog.Columns[t])
		}
	}
	return colIx
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	return norm.NFC.String(v)
}

// decoder wraps r so that a UTF-8 or UTF-16 byte order mark is honored and
// stripped, falling back to the configured encoding otherwise.
func decoder(r io.Reader, name string) (io.Reader, error) {
	var fallback transform.Transformer
	switch strings.ToLower(name) {
	case "", EncodingUTF8, "utf8":
		fallback = encoding.UTF8Validator
	case EncodingWindows1252, "cp1252":
		fallback = charmap.Windows1252.NewDecoder()
	case EncodingLatin1, "latin1":
		fallback = charmap.ISO8859_1.NewDecoder()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, name)
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback)), nil
}

func readError(err error) error {
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		return fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("malformed CSV at line %d: %w", perr.StartLine, err)
	}
	return fmt.Errorf("failed to read input: %w", err)
}
