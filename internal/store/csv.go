// Package store is the tabular persistence layer. Every dataset is a CSV
// file written with a UTF-8 byte order mark so league names in Hebrew survive
// round-trips through spreadsheet tools unchanged.
//
// Save and Append both rewrite the target file in full: Append reads the
// existing rows (if any), concatenates, and writes everything back under the
// canonical column order. There is exactly one process instance per run, so
// no locking is needed.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Row is one record of a table. Cells are kept as text; numeric
// interpretation is the caller's concern.
type Row map[string]string

// Load reads a table. A missing file is not an error: it returns (nil, nil)
// so callers can treat "absent" and "empty" alike.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// Strip the BOM we write on save; files without one pass through as-is.
	dec := unicode.UTF8BOM.NewDecoder()
	r := csv.NewReader(transform.NewReader(f, dec))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Save writes rows to path, creating parent directories as needed. Columns
// follow columnOrder first (only those actually present), then any extra
// columns in lexical order. Columns that are empty in every row are
// dropped.
func Save(rows []Row, path string, columnOrder []string) error {
	cols := orderColumns(rows, columnOrder)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString("\uFEFF"); err != nil {
		return fmt.Errorf("write BOM to %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(cols); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}
	rec := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// Append concatenates rows onto the existing table and rewrites the file. An
// existing file that cannot be read is replaced rather than aborting the run.
func Append(rows []Row, path string, columnOrder []string) error {
	existing, err := Load(path)
	if err != nil {
		existing = nil
	}
	combined := make([]Row, 0, len(existing)+len(rows))
	combined = append(combined, existing...)
	combined = append(combined, rows...)
	return Save(combined, path, columnOrder)
}

// orderColumns resolves the output column order for a row set: canonical
// order first, unanticipated extras after, all-empty columns removed.
func orderColumns(rows []Row, columnOrder []string) []string {
	nonEmpty := make(map[string]bool)
	for _, row := range rows {
		for col, v := range row {
			if v != "" {
				nonEmpty[col] = true
			}
		}
	}

	seen := make(map[string]bool)
	var cols []string
	for _, col := range columnOrder {
		if nonEmpty[col] && !seen[col] {
			cols = append(cols, col)
			seen[col] = true
		}
	}
	// Extra columns sort lexically so output is deterministic across runs.
	for _, row := range rows {
		for _, col := range sortedKeys(row) {
			if nonEmpty[col] && !seen[col] {
				cols = append(cols, col)
				seen[col] = true
			}
		}
	}
	return cols
}
