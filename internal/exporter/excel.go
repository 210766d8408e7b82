package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter builds single-sheet xlsx workbooks.
type ExcelWriter struct {
	SheetName string
}

// NewExcelWriter creates a writer that names its sheet sheetName.
func NewExcelWriter(sheetName string) *ExcelWriter {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &ExcelWriter{SheetName: sheetName}
}

// Build creates a workbook with a bold header row followed by records.
// The caller must Close the returned file.
func (e *ExcelWriter) Build(headers []string, records [][]string) (*excelize.File, error) {
	f := excelize.NewFile()

	if first := f.GetSheetName(0); first != e.SheetName {
		if err := f.SetSheetName(first, e.SheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := e.writeRow(f, 1, headers); err != nil {
		f.Close()
		return nil, err
	}
	if len(headers) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(e.SheetName, "A1", last, style); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, record := range records {
		if err := e.writeRow(f, i+2, record); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// Write builds the workbook and streams it to w.
func (e *ExcelWriter) Write(w io.Writer, headers []string, records [][]string) error {
	f, err := e.Build(headers, records)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveAs builds the workbook and saves it to path.
func (e *ExcelWriter) SaveAs(path string, headers []string, records [][]string) error {
	f, err := e.Build(headers, records)
	if err != nil {
		return err
	}
	defer f.Close()

	slog.Info("Writing Excel file",
		slog.String("full_path", path),
		slog.Int("record_count", len(records)))

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (e *ExcelWriter) writeRow(f *excelize.File, rowNum int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", rowNum, err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(e.SheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
