// Package export turns completed work items into a downloadable spreadsheet.
// It is the only package that knows the spreadsheet library's shape; callers
// see rows in, file bytes out.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"labelscan/internal/domain"
)

// FileName is the deterministic download name for the workbook.
const FileName = "label-scan-results.xlsx"

const sheetName = "Labels"

var header = []any{"File", "Product Name", "Ref Number", "Lot Number", "Expiration Date"}

// BuildWorkbook renders one worksheet with a header row and one row per done
// item, in snapshot order. Items in any other status are skipped. With no
// done items it returns domain.ErrNothingToExport and no file.
func BuildWorkbook(items []domain.Item) ([]byte, error) {
	done := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if it.Status == domain.StatusDone {
			done = append(done, it)
		}
	}
	if len(done) == 0 {
		return nil, domain.ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("export: write header: %w", err)
	}

	for i, it := range done {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export: row cell: %w", err)
		}
		row := []any{
			it.FileName,
			orEmpty(fieldOf(it, func(f *domain.ExtractedFields) *string { return f.ProductName })),
			orEmpty(fieldOf(it, func(f *domain.ExtractedFields) *string { return f.RefNumber })),
			orEmpty(fieldOf(it, func(f *domain.ExtractedFields) *string { return f.LotNumber })),
			orEmpty(fieldOf(it, func(f *domain.ExtractedFields) *string { return f.ExpirationDate })),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("export: write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func fieldOf(it domain.Item, pick func(*domain.ExtractedFields) *string) *string {
	if it.Fields == nil {
		return nil
	}
	return pick(it.Fields)
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
