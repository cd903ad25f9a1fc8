package services

import (
	"fmt"
	"strings"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/pkg/spreadsheet"
)

// Template is a downloadable starter file for an import.
type Template struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TemplateService renders empty import templates whose header row matches
// the schema labels exactly, so a round-trip through decode maps cleanly.
type TemplateService struct{}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

// Fields exposes the schema for the given risk type.
func (s *TemplateService) Fields(riskType riskimport.RiskType) []riskimport.FieldDefinition {
	return riskimport.Schema(riskType)
}

// Render produces a CSV or XLSX template with one example row.
func (s *TemplateService) Render(riskType riskimport.RiskType, format string) (*Template, error) {
	schema := riskimport.Schema(riskType)
	header := make([]string, len(schema))
	example := make([]string, len(schema))
	for i, def := range schema {
		header[i] = def.Label
		example[i] = exampleValue(def)
	}

	switch strings.ToLower(format) {
	case "", "csv":
		data, err := spreadsheet.WriteCSV(header, [][]string{example})
		if err != nil {
			return nil, err
		}
		return &Template{
			Filename:    fmt.Sprintf("%s_risk_import_template.csv", riskType),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "xlsx":
		data, err := spreadsheet.WriteXLSX("Risks", header, [][]string{example})
		if err != nil {
			return nil, err
		}
		return &Template{
			Filename:    fmt.Sprintf("%s_risk_import_template.xlsx", riskType),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	}
	return nil, ErrUnsupportedFormat.WithDetails(fmt.Sprintf("template format %q", format))
}

func exampleValue(def riskimport.FieldDefinition) string {
	switch def.Type {
	case riskimport.FieldEnum:
		if len(def.Options) > 0 {
			return def.Options[0]
		}
		return ""
	case riskimport.FieldDate:
		return "2026-01-15"
	}
	switch def.Field {
	case riskimport.FieldRiskName:
		return "Example risk"
	case riskimport.FieldRiskDescription:
		return "Describe the risk here"
	case riskimport.FieldOwner:
		return "Jane Doe"
	case riskimport.FieldCategory:
		return "Operational"
	}
	return ""
}
