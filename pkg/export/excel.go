package export

import (
	"fmt"
	"io"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// WriteXLSX writes one table as a single-sheet workbook. Numeric cells
// stay numeric so spreadsheet formulas work on the export.
func WriteXLSX(w io.Writer, table *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, c := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell %d: %w", i, err)
		}
		if err := f.SetCellValue(sheetName, cell, c.Name); err != nil {
			return fmt.Errorf("set header %q: %w", c.Name, err)
		}
	}

	for r, row := range table.Rows {
		for i, c := range table.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return fmt.Errorf("cell %d,%d: %w", r, i, err)
			}

			var value any
			switch c.Type {
			case domain.ColumnNumeric:
				value = row[i].Number
			case domain.ColumnDate:
				value = row[i].Date.Format("2006-01-02")
			default:
				value = row[i].Text
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("set cell %d,%d: %w", r, i, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
