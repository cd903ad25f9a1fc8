package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/pkg/configuration"
)

// dateLayouts are tried in order; the first hit wins and the value is
// normalized to RFC 3339 so storage never sees locale-specific formats.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
}

// MappingResult pairs the per-row validation output with its tally.
type MappingResult struct {
	Rows    []riskimport.MappedRow       `json:"rows"`
	Summary riskimport.ValidationSummary `json:"summary"`
}

// MappingService projects raw parsed rows through a column-to-field mapping
// and validates the result against the risk type's schema. Mapping never
// touches storage; running it twice over the same input yields the same
// output.
type MappingService struct {
	autoCalc bool
}

func NewMappingService(conf *configuration.Configuration) *MappingService {
	return &MappingService{autoCalc: conf.RiskImport.AutoCalcEnabled}
}

// Map applies mapping (source column header -> schema field key) to every
// row. Unmapped columns are dropped; mapped-but-empty cells stay nil so later
// steps can tell absent from empty.
func (s *MappingService) Map(riskType riskimport.RiskType, mapping map[string]string, rows []riskimport.ParsedRow) *MappingResult {
	out := &MappingResult{Rows: make([]riskimport.MappedRow, 0, len(rows))}
	for _, row := range rows {
		mapped := s.mapRow(riskType, mapping, row)
		if mapped.IsValid {
			out.Summary.Valid++
		} else {
			out.Summary.Invalid++
		}
		out.Summary.Total++
		out.Rows = append(out.Rows, mapped)
	}
	return out
}

func (s *MappingService) mapRow(riskType riskimport.RiskType, mapping map[string]string, row riskimport.ParsedRow) riskimport.MappedRow {
	mapped := riskimport.MappedRow{RowIndex: row.RowIndex, Errors: []string{}}

	for column, field := range mapping {
		if _, ok := riskimport.SchemaField(riskType, field); !ok {
			continue
		}
		raw, ok := row.Data[column]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		mapped.Fields.Set(field, &value)
	}

	for _, def := range riskimport.Schema(riskType) {
		value := mapped.Fields.Get(def.Field)
		if value == nil {
			if def.Required {
				mapped.Errors = append(mapped.Errors, fmt.Sprintf("%s is required", def.Label))
			}
			continue
		}
		switch def.Type {
		case riskimport.FieldEnum:
			if !contains(def.Options, *value) {
				mapped.Errors = append(mapped.Errors, fmt.Sprintf(
					"%s must be one of: %s", def.Label, strings.Join(def.Options, ", "),
				))
			}
		case riskimport.FieldDate:
			normalized, ok := normalizeDate(*value)
			if !ok {
				mapped.Errors = append(mapped.Errors, fmt.Sprintf("%s must be a valid date", def.Label))
				continue
			}
			mapped.Fields.Set(def.Field, &normalized)
		}
	}

	mapped.IsValid = len(mapped.Errors) == 0
	if mapped.IsValid && s.autoCalc {
		s.autoCalculate(riskType, &mapped.Fields)
	}
	return mapped
}

// autoCalculate derives the risk level from the matrix. Project imports get
// the derived value in a dedicated field so a user-entered current level is
// never clobbered; vendor imports write the matrix result into risk_level,
// replacing whatever the file carried. A matrix miss leaves everything
// untouched.
func (s *MappingService) autoCalculate(riskType riskimport.RiskType, fields *riskimport.RiskFields) {
	likelihood := fields.Get(riskimport.FieldLikelihood)
	if likelihood == nil {
		return
	}
	switch riskType {
	case riskimport.TypeVendor:
		impact := fields.Get(riskimport.FieldImpact)
		if impact == nil {
			return
		}
		if level, ok := riskimport.Level(riskType, *likelihood, *impact); ok {
			fields.Set(riskimport.FieldRiskLevel, &level)
		}
	default:
		severity := fields.Get(riskimport.FieldSeverity)
		if severity == nil {
			return
		}
		if level, ok := riskimport.Level(riskType, *likelihood, *severity); ok {
			fields.Set(riskimport.FieldAutoLevel, &level)
		}
	}
}

func normalizeDate(value string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(time.RFC3339), true
		}
	}
	return "", false
}

func contains(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
