package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/contactscan/internal/model"
)

// xlsxSheetName is the worksheet the results land on.
const xlsxSheetName = "Results"

// xlsxHeader is the column layout of the exported spreadsheet. The order
// matches what downstream spreadsheet tooling historically expects.
var xlsxHeader = []string{
	"Website",
	"Emails",
	"Email Count",
	"Mobile Numbers",
	"WhatsApp Links",
	"Mobile Count",
}

// XLSXWriter exports results as an Excel spreadsheet. Unlike the other
// writers it targets a file path, because the XLSX container is a zip
// archive and is never useful on a terminal.
//
// Design decision: We use xuri/excelize rather than emitting CSV because:
// 1. The export is handed to non-technical users who open it in Excel
// 2. Multi-valued cells survive without CSV quoting pitfalls
// 3. excelize lets us set column widths so the file is readable as-is
type XLSXWriter struct {
	// path is the destination file. Overwritten if it exists.
	path string
}

// NewXLSXWriter creates an XLSXWriter targeting the given file path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write renders the results into a spreadsheet and saves it to the
// configured path. The byte count is always zero; the interface's count
// is only meaningful for stream writers.
func (w *XLSXWriter) Write(results []*model.SiteResult) (int, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerCells := make([]interface{}, len(xlsxHeader))
	for i, h := range xlsxHeader {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(xlsxSheetName, "A1", &headerCells); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range results {
		row := []interface{}{
			r.URL,
			strings.Join(r.Emails, ", "),
			len(r.Emails),
			strings.Join(r.Phones, ", "),
			strings.Join(r.WhatsAppLinks(), ", "),
			len(r.Phones),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(xlsxSheetName, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	// Widen the list columns so the file opens readable.
	if err := f.SetColWidth(xlsxSheetName, "A", "A", 40); err != nil {
		return 0, fmt.Errorf("failed to set column width: %w", err)
	}
	for _, col := range []string{"B", "D", "E"} {
		if err := f.SetColWidth(xlsxSheetName, col, col, 50); err != nil {
			return 0, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return 0, fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return 0, nil
}
