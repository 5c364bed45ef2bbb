// Package reports renders the per-master period rollup as an XLSX workbook
// for the salon's accountant.
package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/salonhub/visits-service/internal/stats"
)

const sheetName = "Masters"

var headerRow = []interface{}{
	"Master", "Visits", "Services (UAH)", "Hair (UAH)", "Goods (UAH)", "Total (UAH)", "Hands",
}

// BuildMastersWorkbook writes one row per master plus a grand-total row.
// The returned buffer is a complete .xlsx file.
func BuildMastersWorkbook(totals []stats.MasterTotals, from, to string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	title := "Masters report"
	if from != "" || to != "" {
		title = fmt.Sprintf("Masters report %s .. %s", from, to)
	}
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A2", &headerRow); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 2, 2, bold); err != nil {
		return nil, err
	}

	grand := stats.MasterTotals{MasterName: "TOTAL"}
	for i, m := range totals {
		row := []interface{}{m.MasterName, m.Visits, m.ServicesSum, m.HairSum, m.GoodsSum, m.TotalSum, m.Hands}
		cell := fmt.Sprintf("A%d", i+3)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+3, err)
		}
		grand.Visits += m.Visits
		grand.ServicesSum += m.ServicesSum
		grand.HairSum += m.HairSum
		grand.GoodsSum += m.GoodsSum
		grand.TotalSum += m.TotalSum
		grand.Hands += m.Hands
	}

	totalRowCell := fmt.Sprintf("A%d", len(totals)+3)
	totalRow := []interface{}{grand.MasterName, grand.Visits, grand.ServicesSum, grand.HairSum, grand.GoodsSum, grand.TotalSum, grand.Hands}
	if err := f.SetSheetRow(sheetName, totalRowCell, &totalRow); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetName, len(totals)+3, len(totals)+3, bold); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(sheetName, "A", "A", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "G", 14); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf, nil
}
