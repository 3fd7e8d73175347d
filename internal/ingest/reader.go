package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/cardledger/cardledger/internal/encoding"
	"github.com/cardledger/cardledger/internal/normalize"
)

// row is one data row paired with its 1-based line number in the source
// file, kept for failure reporting.
type row struct {
	num int
	rec normalize.Record
}

// readRecords decodes the export to UTF-8, reads it as CSV, and maps each
// data row to column name → value using the header. A header missing any
// required column fails fast before a single row is processed.
func readRecords(r io.Reader, required []string) ([]row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("empty export file")
	}

	header := raw[0]
	colIdx := make(map[string]int, len(header))

	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	var missing []string

	for _, col := range required {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("export header is missing columns: %s", strings.Join(missing, ", "))
	}

	var rows []row

	for i, cells := range raw[1:] {
		if isBlank(cells) {
			continue
		}

		rec := make(normalize.Record, len(colIdx))

		for col, idx := range colIdx {
			if idx < len(cells) {
				rec[col] = cells[idx]
			}
		}

		rows = append(rows, row{num: i + 2, rec: rec})
	}

	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
