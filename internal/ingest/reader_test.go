//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestReadSingleRow(t *testing.T) {
	input := "SITE;REGION;MODEL;SERIALNUMBER\nBER;DACH;X1;SN1\n"

	res, err := Read(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(res.Records))
	}

	rec := res.Records[0]
	tests := map[string]string{
		"SITE":         "BER",
		"REGION":       "DACH",
		"MODEL":        "X1",
		"SERIALNUMBER": "SN1",
		"ROOM":         "",
		"PL_NAME":      "",
	}
	for col, want := range tests {
		if got := rec.Get(col); got != want {
			t.Errorf("Expected %s '%s', got '%s'", col, want, got)
		}
	}
	if rec.Line != 2 {
		t.Errorf("Expected line 2, got %d", rec.Line)
	}
	if len(res.Recognized) != 4 {
		t.Errorf("Expected 4 recognized columns, got %v", res.Recognized)
	}
	if len(res.Missing) != 43 {
		t.Errorf("Expected 43 missing columns, got %d", len(res.Missing))
	}
}

func TestReadResolvesByName(t *testing.T) {
	input := "serialnumber ; Extra ;SITE\nSN9;ignored;MNC\n"

	res, err := Read(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	rec := res.Records[0]
	if rec.Get("SITE") != "MNC" {
		t.Errorf("Expected SITE 'MNC', got '%s'", rec.Get("SITE"))
	}
	if rec.Get("SERIALNUMBER") != "SN9" {
		t.Errorf("Expected SERIALNUMBER 'SN9', got '%s'", rec.Get("SERIALNUMBER"))
	}
	if len(res.Ignored) != 1 || res.Ignored[0] != "Extra" {
		t.Errorf("Expected ignored [Extra], got %v", res.Ignored)
	}
}

func TestReadTrimsAndSkipsBlankRows(t *testing.T) {
	input := strings.Join([]string{
		"SITE;MODEL;SERIALNUMBER",
		"  BER ;\tThinkPad X1  ; SN1",
		";;",
		" ; ;  ",
		"MNC;;SN2",
		"",
	}, "\n")

	res, err := Read(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(res.Records))
	}
	if res.Skipped != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", res.Skipped)
	}
	if got := res.Records[0].Get("MODEL"); got != "ThinkPad X1" {
		t.Errorf("Expected trimmed MODEL 'ThinkPad X1', got '%s'", got)
	}
	if got := res.Records[1].Line; got != 5 {
		t.Errorf("Expected second record on line 5, got %d", got)
	}
}

func TestReadShortRows(t *testing.T) {
	input := "SITE;REGION;MODEL\nBER\n"

	res, err := Read(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	rec := res.Records[0]
	if rec.Get("REGION") != "" || rec.Get("MODEL") != "" {
		t.Errorf("Expected empty values for short row, got %v", rec.Values)
	}
}

func TestReadBOM(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "utf-8 bom",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("SITE;MODEL\nBER;Präzision\n")...),
		},
		{
			name:  "no bom",
			input: []byte("SITE;MODEL\nBER;Präzision\n"),
		},
		{
			name:  "utf-16le bom",
			input: encodeUTF16(t, "SITE;MODEL\nBER;Präzision\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Read(bytes.NewReader(tt.input), DefaultOptions())
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if len(res.Records) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(res.Records))
			}
			if got := res.Records[0].Get("SITE"); got != "BER" {
				t.Errorf("Expected SITE 'BER', got '%s'", got)
			}
			if got := res.Records[0].Get("MODEL"); got != "Präzision" {
				t.Errorf("Expected MODEL 'Präzision', got '%s'", got)
			}
		})
	}
}

func encodeUTF16(t *testing.T, s string) []byte {
	t.Helper()
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		t.Fatalf("Failed to encode UTF-16: %v", err)
	}
	return out
}

func TestReadNFC(t *testing.T) {
	// "e" followed by a combining acute accent
	input := "SITE;PL_NAME\nBER;Cafe\u0301\n"

	res, err := Read(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := res.Records[0].Get("PL_NAME"); got != "Caf\u00e9" {
		t.Errorf("Expected composed 'Café', got %q", got)
	}
}

func TestReadWindows1252(t *testing.T) {
	// 0xFC is "ü" in Windows-1252 and invalid on its own in UTF-8
	input := []byte("SITE;PL_NAME\nZUG;Z\xfcrich\n")

	_, err := Read(bytes.NewReader(input), DefaultOptions())
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("Expected ErrInvalidEncoding for UTF-8, got %v", err)
	}

	res, err := Read(bytes.NewReader(input), Options{Delimiter: ';', Encoding: EncodingWindows1252})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := res.Records[0].Get("PL_NAME"); got != "Zürich" {
		t.Errorf("Expected 'Zürich', got '%s'", got)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    Options
		wantErr error
	}{
		{
			name:    "empty input",
			input:   "",
			opts:    DefaultOptions(),
			wantErr: ErrNoHeader,
		},
		{
			name:    "wrong delimiter",
			input:   "SITE,REGION,MODEL\nBER,DACH,X1\n",
			opts:    DefaultOptions(),
			wantErr: ErrNoRecognizedColumns,
		},
		{
			name:    "unknown columns only",
			input:   "FOO;BAR\n1;2\n",
			opts:    DefaultOptions(),
			wantErr: ErrNoRecognizedColumns,
		},
		{
			name:    "invalid utf-8 in header",
			input:   "SI\xffTE;MODEL\nBER;X1\n",
			opts:    DefaultOptions(),
			wantErr: ErrInvalidEncoding,
		},
		{
			name:    "unsupported encoding",
			input:   "SITE\nBER\n",
			opts:    Options{Encoding: "ebcdic"},
			wantErr: ErrUnsupportedEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReadCommaDelimiter(t *testing.T) {
	input := "SITE,REGION\nBER,DACH\n"

	res, err := Read(strings.NewReader(input), Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := res.Records[0].Get("REGION"); got != "DACH" {
		t.Errorf("Expected REGION 'DACH', got '%s'", got)
	}
}

func TestReadDuplicateHeaderFirstWins(t *testing.T) {
	input := "SITE;SITE\nBER;MNC\n"

	res, err := Read(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := res.Records[0].Get("SITE"); got != "BER" {
		t.Errorf("Expected first SITE 'BER', got '%s'", got)
	}
}

func TestRecordEmpty(t *testing.T) {
	if !(Record{Values: []string{"", ""}}).Empty() {
		t.Error("Expected empty record")
	}
	if (Record{Values: []string{"", "x"}}).Empty() {
		t.Error("Expected non-empty record")
	}
}

func TestReadSkipsRowsWithOnlyIgnoredValues(t *testing.T) {
	input := "SITE;NOTES;SERIALNUMBER\n;left in the lab;\nBER;;SN1\n"

	res, err := Read(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(res.Records))
	}
	if res.Skipped != 1 {
		t.Errorf("Expected 1 skipped row, got %d", res.Skipped)
	}
	if res.Records[0].Line != 3 {
		t.Errorf("Expected line 3, got %d", res.Records[0].Line)
	}
}
