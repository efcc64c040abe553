// Package report writes a collection, as currently filtered, to a CSV file.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/idilsaglam/hcadmin/internal/resource"
)

// Kinds are the collections that can be exported.
var Kinds = []string{"users", "admins", "transactions", "issues", "specializations", "ailments", "faqs"}

var ErrNoData = errors.New("No data to download")

// FileName is <kind>_report_<YYYY-MM-DD>.csv.
func FileName(kind string, day time.Time) string {
	return fmt.Sprintf("%s_report_%s.csv", kind, day.Format(time.DateOnly))
}

// WriteCSV writes a header row followed by rows.
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Export loads v if needed, applies query and writes the visible rows to
// dir. It returns the file path and the number of rows written.
func Export(ctx context.Context, v resource.View, dir, query string, day time.Time) (string, int, error) {
	if !slices.Contains(Kinds, v.Name()) {
		return "", 0, fmt.Errorf("no report for %s", v.Name())
	}
	if !v.Loaded() {
		if err := v.Load(ctx); err != nil {
			return "", 0, err
		}
	}
	v.SetQuery(query)
	rows := v.ExportRows()
	if len(rows) == 0 {
		return "", 0, ErrNoData
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, FileName(v.Name(), day))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create report: %w", err)
	}
	if err := WriteCSV(f, v.Headers(), rows); err != nil {
		_ = f.Close()
		return "", 0, err
	}
	if err := f.Close(); err != nil {
		return "", 0, err
	}
	return path, len(rows), nil
}
