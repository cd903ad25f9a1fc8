package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/pkg/configuration"
	"github.com/riskdesk/riskdesk/pkg/spreadsheet"
)

// DecodeResult is what the upload step hands back to the client: the column
// headers for mapping, every parsed row, and a short preview.
type DecodeResult struct {
	Headers   []string               `json:"headers"`
	Rows      []riskimport.ParsedRow `json:"rows"`
	Preview   []riskimport.ParsedRow `json:"preview"`
	TotalRows int                    `json:"totalRows"`
}

// DecodeService turns an uploaded CSV or XLSX buffer into parsed rows keyed
// by their header labels.
type DecodeService struct {
	maxFileSize int64
	previewRows int
}

func NewDecodeService(conf *configuration.Configuration) *DecodeService {
	return &DecodeService{
		maxFileSize: conf.RiskImport.MaxFileSize,
		previewRows: conf.RiskImport.PreviewRows,
	}
}

// Decode parses the upload. The file extension picks the codec; anything
// outside the allow-list is rejected before any bytes are inspected.
func (s *DecodeService) Decode(filename string, data []byte) (*DecodeResult, error) {
	if int64(len(data)) > s.maxFileSize {
		return nil, ErrFileTooLarge.WithDetails(
			fmt.Sprintf("%d bytes exceeds limit of %d", len(data), s.maxFileSize),
		)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	var records [][]string
	var err error
	switch ext {
	case ".csv":
		records, err = spreadsheet.ReadCSV(data)
	case ".xlsx", ".xls":
		records, err = spreadsheet.ReadXLSX(data)
		if err != nil {
			// Legacy binary .xls workbooks land here: the content cannot
			// be opened as an OOXML archive.
			return nil, ErrUnsupportedFormat.WithDetails(
				fmt.Sprintf("workbook could not be opened (legacy binary %s is not supported): %v", ext, err),
			)
		}
	default:
		return nil, ErrUnsupportedFormat.WithDetails(fmt.Sprintf("extension %q", ext))
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]riskimport.ParsedRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlankRow(record) {
			continue
		}
		cells := make(map[string]string, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(record) {
				cells[header] = strings.TrimSpace(record[col])
			} else {
				cells[header] = ""
			}
		}
		rows = append(rows, riskimport.ParsedRow{RowIndex: i + 1, Data: cells})
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	preview := rows
	if len(preview) > s.previewRows {
		preview = preview[:s.previewRows]
	}
	return &DecodeResult{
		Headers:   headers,
		Rows:      rows,
		Preview:   preview,
		TotalRows: len(rows),
	}, nil
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
