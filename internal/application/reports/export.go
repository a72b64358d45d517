package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// BuildStationXLSX renders a workbook with a summary sheet and one row per unit.
func BuildStationXLSX(r StationReport, title string) ([]byte, error) {
	if title == "" {
		title = "Asset Register"
	}
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	itemsSheet := "items"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}

	code := ""
	if r.Station.Code != nil {
		code = *r.Station.Code
	}
	_ = f.SetCellValue(summarySheet, "A1", title)
	_ = f.SetCellValue(summarySheet, "A3", "Station")
	_ = f.SetCellValue(summarySheet, "B3", r.Station.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Station Code")
	_ = f.SetCellValue(summarySheet, "B4", code)
	_ = f.SetCellValue(summarySheet, "A5", "Generated")
	_ = f.SetCellValue(summarySheet, "B5", r.GeneratedAt.Format("2006-01-02 15:04"))
	_ = f.SetCellValue(summarySheet, "A6", "Items")
	_ = f.SetCellValue(summarySheet, "B6", r.ItemCount)
	_ = f.SetCellValue(summarySheet, "A7", "Total Value")
	_ = f.SetCellValue(summarySheet, "B7", r.TotalValue.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A8", "Currency")
	_ = f.SetCellValue(summarySheet, "B8", r.Currency)

	headers := []string{"#", "Asset", "Asset No.", "Batch", "Purchase Date", "Serial No.", "Assigned", "Price"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(itemsSheet, cell, h)
	}
	for _, row := range Rows(r) {
		line := row.No + 1
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", line), row.No)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", line), row.AssetName)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", line), row.AssetNumber)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", line), row.BatchName)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("E%d", line), formatDate(row.PurchaseDate))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("F%d", line), orDash(row.SerialNumber))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("G%d", line), formatDate(row.AssignedAt))
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("H%d", line), row.PurchasePrice.InexactFloat64())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStationPDF renders an A4 report with the unit table and total.
func BuildStationPDF(r StationReport, title string) ([]byte, error) {
	if title == "" {
		title = "Asset Register"
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, tr(title))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Station: %s", r.Station.Name)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Items: %d", r.ItemCount))
	pdf.Ln(8)

	widths := []float64{8, 38, 22, 30, 22, 28, 22, 20}
	headers := []string{"#", "Asset", "Asset No.", "Batch", "Purchased", "Serial No.", "Assigned", "Price"}
	pdf.SetFont("Arial", "B", 8)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	for _, row := range Rows(r) {
		cells := []string{
			fmt.Sprintf("%d", row.No),
			tr(row.AssetName),
			tr(orDash(row.AssetNumber)),
			tr(row.BatchName),
			formatDate(row.PurchaseDate),
			tr(orDash(row.SerialNumber)),
			formatDate(row.AssignedAt),
			FormatCurrency(row.PurchasePrice, r.Currency),
		}
		for i, c := range cells {
			align := "L"
			if i == len(cells)-1 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total Value: %s", FormatCurrency(r.TotalValue, r.Currency)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
