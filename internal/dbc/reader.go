// Package dbc reads the extracted client CSV tables and provides the
// lookup and tree primitives the parse units are built from.
//
// The extracted tables are not RFC 4180 CSV: rows may carry embedded
// commas inside double quotes, files show up in a handful of legacy
// encodings depending on the extraction locale, and trailing columns
// are occasionally truncated. The reader deals with all of that so the
// units only ever see clean, projected rows.
package dbc

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// utf8BOM is the byte-order mark some extraction tools prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MissingColumnsError reports requested columns absent from a table header.
type MissingColumnsError struct {
	File    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Columns, ", "))
}

// DecodeError reports a file that none of the supported encodings could decode.
type DecodeError struct {
	File      string
	Encodings []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: undecodable with any of: %s", e.File, strings.Join(e.Encodings, ", "))
}

// ReadStats describes what happened while reading one table.
type ReadStats struct {
	// Encoding is the name of the encoding that decoded the file.
	Encoding string
	// Rows is the number of data rows returned.
	Rows int
	// Skipped is the number of short rows dropped.
	Skipped int
}

// ReadTable reads the table at path and projects every data row onto the
// requested columns.
//
// Any requested column missing from the header fails the whole read with
// a MissingColumnsError. Data rows with fewer fields than the header are
// skipped with a warning; everything else is returned in file order.
func ReadTable(path string, columns []string) ([]Row, ReadStats, error) {
	var stats ReadStats

	content, encName, err := decodeFile(path)
	if err != nil {
		return nil, stats, err
	}
	stats.Encoding = encName

	lines := splitLines(content)
	if len(lines) == 0 {
		return nil, stats, fmt.Errorf("%s: empty file", path)
	}

	header := splitFields(lines[0])
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[CleanCell(h)] = i
	}

	var missing []string
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, stats, &MissingColumnsError{File: path, Columns: missing}
	}

	rows := make([]Row, 0, len(lines)-1)
	for n, line := range lines[1:] {
		if line == "" {
			continue
		}
		fields := splitFields(line)
		if len(fields) < len(header) {
			stats.Skipped++
			slog.Warn("skipping short row",
				"file", path,
				"line", n+2,
				"fields", len(fields),
				"expected", len(header),
			)
			continue
		}
		row := make(Row, len(columns))
		for _, col := range columns {
			row[col] = CleanCell(fields[index[col]])
		}
		rows = append(rows, row)
	}

	stats.Rows = len(rows)
	return rows, stats, nil
}

// decodeFile reads path and decodes it with the first encoding that
// produces valid text. UTF-8 variants are preferred; the single-byte
// legacy encodings always decode, so they act as the final fallback.
func decodeFile(path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read table: %w", err)
	}

	if bytes.HasPrefix(raw, utf8BOM) {
		body := raw[len(utf8BOM):]
		if utf8.Valid(body) {
			return string(body), "utf-8-sig", nil
		}
	} else if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}

	fallbacks := []struct {
		name string
		cm   *charmap.Charmap
	}{
		{"latin-1", charmap.ISO8859_1},
		{"windows-1252", charmap.Windows1252},
		{"iso-8859-1", charmap.ISO8859_1},
	}
	for _, fb := range fallbacks {
		decoded, err := fb.cm.NewDecoder().Bytes(raw)
		if err == nil {
			return string(decoded), fb.name, nil
		}
	}

	return "", "", &DecodeError{
		File:      path,
		Encodings: []string{"utf-8", "utf-8-sig", "latin-1", "windows-1252", "iso-8859-1"},
	}
}

// splitLines breaks decoded file content into lines, tolerating both
// LF and CRLF endings and a missing final newline.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	// Drop a trailing empty line from the final newline.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// splitFields splits one CSV line on commas, treating commas inside
// double quotes as data.
func splitFields(line string) []string {
	fields := make([]string, 0, 8)
	var b strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			b.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, b.String())
	return fields
}

// CleanCell strips surrounding quotes and whitespace from a cell value.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}
