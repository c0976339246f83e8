// Package excel converts processed CSV tables into XLSX workbooks for the
// alternate download format.
package excel

import (
	"fmt"
	"io"

	"goimpute/domain/dataset"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Exporter writes a dataset table as a single-sheet XLSX workbook. Numeric
// cells are written as numbers so spreadsheet formulas work on them.
type Exporter struct{}

// NewExporter creates an XLSX exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the table to w as an XLSX workbook.
func (e *Exporter) Export(t *dataset.Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, header := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for row := range t.Rows {
		for col := range t.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			raw := t.Cell(row, col)
			if v, ok := dataset.ParseNumeric(raw); ok {
				err = f.SetCellValue(sheetName, cell, v)
			} else {
				err = f.SetCellValue(sheetName, cell, raw)
			}
			if err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
