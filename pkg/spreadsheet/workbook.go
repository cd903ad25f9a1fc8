package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Excel caps sheet names at 31 characters.
const maxSheetNameLen = 31

func newWorkbook(sheetName string) *excelize.File {
	f := excelize.NewFile()
	name := sanitizeSheetName(sheetName)
	if name != "" && name != "Sheet1" {
		_ = f.SetSheetName("Sheet1", name)
	}
	return f
}

func sanitizeSheetName(name string) string {
	if len(name) > maxSheetNameLen {
		return name[:maxSheetNameLen]
	}
	return name
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to set row %d: %w", rowNum, err)
	}
	return nil
}
