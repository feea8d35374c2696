package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	DefaultSheet   = "Commande"
	currencyFormat = `#,##0.00\ "€"`
)

// WriteXLSX writes the grid as a single sheet workbook.
func WriteXLSX(g *Grid, sheet string, w io.Writer) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for r, row := range g.Rows {
		for c, cell := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, cell.Value()); err != nil {
				return fmt.Errorf("cell %s: %w", name, err)
			}
		}
	}

	if err := styleSheet(f, sheet, g); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func styleSheet(f *excelize.File, sheet string, g *Grid) error {
	if len(g.Rows) == 0 {
		return nil
	}
	lastRow := len(g.Rows)
	lastCol := len(g.Rows[0])

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(lastCol, 1)
	if err := f.SetCellStyle(sheet, "A1", end, bold); err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, lastRow)
	end, _ = excelize.CoordinatesToCellName(lastCol, lastRow)
	if err := f.SetCellStyle(sheet, start, end, bold); err != nil {
		return err
	}

	numFmt := currencyFormat
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	boldCurrency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for _, c := range g.CurrencyColumns {
		if lastRow > 2 {
			from, _ := excelize.CoordinatesToCellName(c+1, 2)
			to, _ := excelize.CoordinatesToCellName(c+1, lastRow-1)
			if err := f.SetCellStyle(sheet, from, to, currency); err != nil {
				return err
			}
		}
		cell, _ := excelize.CoordinatesToCellName(c+1, lastRow)
		if err := f.SetCellStyle(sheet, cell, cell, boldCurrency); err != nil {
			return err
		}
	}

	for i, width := range g.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(width)); err != nil {
			return err
		}
	}
	return nil
}
