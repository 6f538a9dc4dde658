// Package csvsource loads table rows from CSV data
// with character encoding and separator detection.
package csvsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/domonda/go-types/charset"
	fs "github.com/ungerik/go-fs"

	tabler "github.com/domonda/go-tabler"
)

// Parse returns the rows of CSV data keyed by the fields of the header line.
// The returned format holds the used or detected encoding and separator.
func Parse(data []byte, format Format) (rows []tabler.Row, fields []string, detected Format, err error) {
	if err := format.Validate(); err != nil {
		return nil, nil, format, err
	}
	data, detected.Encoding, err = Decode(data, format.Encoding)
	if err != nil {
		return nil, nil, detected, err
	}

	if line, rest, found := bytes.Cut(data, []byte{'\n'}); found || len(line) > 0 {
		if sep := parseSepHeaderLine(bytes.TrimRight(line, "\r")); sep != "" {
			if format.Separator != "" && sep != format.Separator {
				return nil, nil, detected, fmt.Errorf("separator %q in header line is different from format separator %q: %w", sep, format.Separator, tabler.ErrInvalidOptions)
			}
			format.Separator = sep
			data = rest
		}
	}
	detected.Separator = format.Separator
	if detected.Separator == "" {
		detected.Separator = DetectSeparator(data)
	}

	records, err := readRecords(data, []rune(detected.Separator)[0])
	if err != nil {
		return nil, nil, detected, err
	}
	if len(records) == 0 {
		return []tabler.Row{}, nil, detected, nil
	}
	fields = headerFields(records[0])
	rows = make([]tabler.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(tabler.Row, len(fields))
		for i, field := range fields {
			if i < len(record) {
				row[field] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, fields, detected, nil
}

// ReadFile reads and parses a CSV file.
func ReadFile(ctx context.Context, file fs.FileReader, format Format) (rows []tabler.Row, fields []string, detected Format, err error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, format, fmt.Errorf("read csv file %s: %w", file.Name(), err)
	}
	rows, fields, detected, err = Parse(data, format)
	if err != nil {
		return nil, nil, detected, fmt.Errorf("parse csv file %s: %w", file.Name(), err)
	}
	return rows, fields, detected, nil
}

// Decode returns data decoded to UTF-8 from encoding.
// If encoding is empty, then DetectionEncodings are tried
// using EncodingTests.
func Decode(data []byte, encoding string) (decoded []byte, usedEncoding string, err error) {
	switch encoding {
	case "":
		var encodings []charset.Encoding
		for _, name := range DetectionEncodings {
			enc, err := charset.GetEncoding(name)
			if err != nil {
				return nil, "", err
			}
			encodings = append(encodings, enc)
		}
		data, encoding, err = charset.AutoDecode(data, encodings, EncodingTests)
		if err != nil {
			return nil, "", err
		}
		if encoding == "" {
			encoding = "UTF-8"
		}
		data = charset.TrimBOM(data, charset.BOMUTF8)
	case "UTF-8":
		data = charset.TrimBOM(data, charset.BOMUTF8)
	default:
		enc, err := charset.GetEncoding(encoding)
		if err != nil {
			return nil, "", err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, "", err
		}
	}
	return sanitizeUTF8(data), encoding, nil
}

// DetectSeparator returns the most frequent of comma,
// semicolon and tab in data, defaulting to comma.
func DetectSeparator(data []byte) string {
	var (
		commas     = bytes.Count(data, []byte{','})
		semicolons = bytes.Count(data, []byte{';'})
		tabs       = bytes.Count(data, []byte{'\t'})
	)
	switch {
	case semicolons > commas && semicolons > tabs:
		return ";"
	case tabs > commas && tabs > semicolons:
		return "\t"
	default:
		return ","
	}
}

// parseSepHeaderLine returns the separator of a
// "sep=X" line as written by spreadsheet applications.
func parseSepHeaderLine(line []byte) (sep string) {
	if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:5])
}

func readRecords(data []byte, separator rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = separator
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// headerFields returns the trimmed header names,
// "column N" for empty names and numbered duplicates.
func headerFields(header []string) []string {
	fields := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "column " + strconv.Itoa(i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name += " " + strconv.Itoa(n)
		}
		fields[i] = name
	}
	return fields
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			// \u00a0 is No-Break Space (NBSP)
			case '\uFFFD', '\u00a0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
