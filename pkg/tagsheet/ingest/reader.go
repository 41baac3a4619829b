package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// preambleMarkers flag a first header cell that is really sheet metadata
// sitting above a blank line and the real header row.
var preambleMarkers = []string{"Unnamed:", "Tags in green"}

// preambleLines is the number of physical lines dropped when a preamble is detected.
const preambleLines = 2

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is one parsed tabular file
type Table struct {
	Path            string
	Name            string // base name without extension
	Headers         []string
	Rows            [][]string
	SkippedPreamble bool
}

// LoadFile parses a CSV file, re-reading it past the preamble when the
// first header cell carries one of the preamble markers.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	t := &Table{
		Path: path,
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	first, err := firstHeader(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if hasPreamble(first) {
		data = dropLines(data, preambleLines)
		t.SkippedPreamble = true
	}

	headers, rows, err := parseCSV(data)
	if err != nil {
		if t.SkippedPreamble {
			return nil, fmt.Errorf("parse %s after preamble: %w", path, err)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	t.Headers = headers
	t.Rows = rows
	return t, nil
}

func hasPreamble(header string) bool {
	for _, marker := range preambleMarkers {
		if strings.Contains(header, marker) {
			return true
		}
	}
	return false
}

// dropLines removes the first n physical lines.
func dropLines(data []byte, n int) []byte {
	for i := 0; i < n; i++ {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			return nil
		}
		data = data[idx+1:]
	}
	return data
}

// firstHeader returns the normalized name of the first header cell,
// read before the remaining rows are checked against the header width.
func firstHeader(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return "", errors.New("no header row")
	}
	if err != nil {
		return "", err
	}
	return normalizeHeaders(header[:1])[0], nil
}

func parseCSV(data []byte) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("no header row")
	}
	if err != nil {
		return nil, nil, err
	}
	headers := normalizeHeaders(header)

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		row, err := fitRow(rec, len(headers))
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// normalizeHeaders names empty header cells "Unnamed: <index>" and
// suffixes repeated names with ".1", ".2", ... so every column is addressable.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = h + "." + strconv.Itoa(n+1)
		} else {
			seen[h] = 0
		}
		headers[i] = h
	}
	return headers
}

// fitRow pads short rows and drops trailing empty cells past the header width.
// Non-empty cells without a header are a parse error.
func fitRow(rec []string, width int) ([]string, error) {
	if len(rec) > width {
		for _, extra := range rec[width:] {
			if !isBlank(extra) {
				return nil, fmt.Errorf("expected %d fields, saw %d", width, len(rec))
			}
		}
		return rec[:width], nil
	}
	for len(rec) < width {
		rec = append(rec, "")
	}
	return rec, nil
}
