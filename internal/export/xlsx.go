package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"catalog-crawl/internal/domain"
)

const xlsxSheet = "Courses"

// XLSXSink writes records to a single-sheet workbook, replacing it.
type XLSXSink struct {
	File string
}

func (s XLSXSink) Path() string { return s.File }

func (s XLSXSink) Write(_ context.Context, records []domain.CourseRecord) error {
	f, err := BuildWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(s.File); err != nil {
		return fmt.Errorf("export: save %s: %w", s.File, err)
	}
	return nil
}

// BuildWorkbook lays records out on the Courses sheet, header on row 1.
// Numeric credits are stored as numbers.
func BuildWorkbook(records []domain.CourseRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	if err := setRow(f, 1, toAny(header)); err != nil {
		f.Close()
		return nil, err
	}
	for i, r := range records {
		row := toAny(toRow(r))
		if r.Credit != nil && !r.Credit.IsVariable() {
			row[4] = r.Credit.Count
		}
		if err := setRow(f, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: freeze header: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: cell name: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
