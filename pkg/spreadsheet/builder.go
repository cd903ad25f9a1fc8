package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// WriteCSV renders a header plus data rows as a CSV buffer.
func WriteCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX renders a header plus data rows as a single-sheet workbook.
func WriteXLSX(sheetName string, header []string, rows [][]string) ([]byte, error) {
	f := newWorkbook(sheetName)
	defer func() { _ = f.Close() }()

	if err := setRow(f, sheetName, 1, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := setRow(f, sheetName, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
