// Package export writes the nc table to an Excel workbook.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the dump.
const SheetName = "nc"

// Workbook builds a workbook with a header row of column names followed by
// one row per record, in the order given.
func Workbook(columns []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D9E1F2"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
			return nil, err
		}
		lastCol, _ := excelize.ColumnNumberToName(len(columns))
		if err := f.SetColWidth(SheetName, "A", lastCol, 16); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := row
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	// Delete default Sheet1 now that ours exists
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteFile saves the workbook at path, replacing any existing file.
func WriteFile(path string, columns []string, rows [][]interface{}) error {
	f, err := Workbook(columns, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	slog.Info("export written", "path", path, "rows", len(rows))
	return nil
}

// Bytes renders the workbook in memory for download.
func Bytes(columns []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f, err := Workbook(columns, rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.WriteToBuffer()
}
