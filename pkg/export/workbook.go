// Package export writes a dashboard session out as a spreadsheet or a PDF
// report.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
	"github.com/Sumatoshi-tech/salesboard/pkg/widgets"
)

// Sheet names of the store workbook.
const (
	StoresSheet  = "Sales by Store"
	SummarySheet = "Summary"
)

const (
	currencyFormat = `"$"#,##0`
	headerFill     = "#018786"
	headerFont     = "#FFFFFF"
	storeColWidth  = 28
	valueColWidth  = 18
)

// StoreWorkbook writes the store ranking and the summary cards to an xlsx
// workbook. Rows keep the order they are given in.
func StoreWorkbook(cards payload.Series, rows []widgets.StoreRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StoresSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeStores(f, styles, rows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	if err := writeCards(f, styles, cards); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf, nil
}

type sheetStyles struct {
	header   int
	currency int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: headerFont},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("header style: %w", err)
	}

	numFmt := currencyFormat

	currency, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("currency style: %w", err)
	}

	return sheetStyles{header: header, currency: currency}, nil
}

func writeStores(f *excelize.File, s sheetStyles, rows []widgets.StoreRow) error {
	if err := f.SetSheetRow(StoresSheet, "A1", &[]any{"Rank", "Store", "Sales (USD)"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := f.SetCellStyle(StoresSheet, "A1", "C1", s.header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}

		if err := f.SetSheetRow(StoresSheet, cell, &[]any{i + 1, r.Store, r.Sales}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if len(rows) > 0 {
		last := fmt.Sprintf("C%d", len(rows)+1)
		if err := f.SetCellStyle(StoresSheet, "C2", last, s.currency); err != nil {
			return fmt.Errorf("style sales: %w", err)
		}
	}

	if err := f.SetColWidth(StoresSheet, "B", "B", storeColWidth); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := f.SetColWidth(StoresSheet, "C", "C", valueColWidth); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	return nil
}

func writeCards(f *excelize.File, s sheetStyles, cards payload.Series) error {
	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"Metric", "Value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := f.SetCellStyle(SummarySheet, "A1", "B1", s.header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, c := range cards {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}

		if err := f.SetSheetRow(SummarySheet, cell, &[]any{c.Key, c.Value}); err != nil {
			return fmt.Errorf("write card %q: %w", c.Key, err)
		}
	}

	return f.SetColWidth(SummarySheet, "A", "A", storeColWidth)
}
