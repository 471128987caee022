package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet name used by the XLSX and Google Sheets exports.
const SheetName = "Rates"

// WriteXLSX writes rows into a single-sheet workbook. Cells keep the export-table strings
// verbatim; the header row is bold.
func WriteXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving cell for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("creating header style: %w", err)
		}
		if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
			return fmt.Errorf("styling header: %w", err)
		}
		last, err := excelize.ColumnNumberToName(len(rows[0]))
		if err != nil {
			return fmt.Errorf("resolving last column: %w", err)
		}
		if err := f.SetColWidth(SheetName, "A", last, 18); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
