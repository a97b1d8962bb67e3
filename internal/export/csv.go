package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"catalog-crawl/internal/domain"
)

// WriteCSV writes a header row plus one row per record.
// Absent fields are empty cells; tags are joined with " | ".
func WriteCSV(w io.Writer, records []domain.CourseRecord) error {
	cw := csv.NewWriter(w)
	// match typical spreadsheet imports
	cw.UseCRLF = true

	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(toRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVSink writes records to a CSV file, replacing it.
type CSVSink struct {
	File string
}

func (s CSVSink) Path() string { return s.File }

func (s CSVSink) Write(_ context.Context, records []domain.CourseRecord) error {
	return writeFile(s.File, func(w io.Writer) error { return WriteCSV(w, records) })
}

// writeFile creates path and hands it to fn, reporting close errors.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: close %s: %w", path, cerr)
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
