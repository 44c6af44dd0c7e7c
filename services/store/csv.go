package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// ExportCSV writes t to <dir>/<name>.csv, truncating an older export, and
// returns the file path. Intermediate directories are created.
func ExportCSV(dir string, t Table) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("csv: create output dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(t.Name)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return "", fmt.Errorf("csv: write header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", fmt.Errorf("csv: write rows: %w", err)
	}
	return path, f.Close()
}
