package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/modules/risks/services"
	"github.com/riskdesk/riskdesk/pkg/configuration"
)

func newMappingService(t *testing.T, autoCalc bool) *services.MappingService {
	t.Helper()
	conf := &configuration.Configuration{
		RiskImport: configuration.RiskImportOptions{AutoCalcEnabled: autoCalc},
	}
	return services.NewMappingService(conf)
}

var projectMapping = map[string]string{
	"Name":       riskimport.FieldRiskName,
	"Likelihood": riskimport.FieldLikelihood,
	"Severity":   riskimport.FieldSeverity,
	"Due":        riskimport.FieldDeadline,
	"Notes":      "not_a_field",
}

func TestMap_ValidProjectRow(t *testing.T) {
	t.Parallel()
	svc := newMappingService(t, false)

	result := svc.Map(riskimport.TypeProject, projectMapping, []riskimport.ParsedRow{
		{RowIndex: 1, Data: map[string]string{
			"Name":       "  Server outage  ",
			"Likelihood": "Likely",
			"Severity":   "Major",
			"Due":        "2026-03-01",
			"Notes":      "ignored",
			"Unmapped":   "also ignored",
		}},
	})

	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.True(t, row.IsValid)
	assert.Empty(t, row.Errors)
	require.NotNil(t, row.Fields.RiskName)
	assert.Equal(t, "Server outage", *row.Fields.RiskName)
	require.NotNil(t, row.Fields.Deadline)
	assert.Equal(t, "2026-03-01T00:00:00Z", *row.Fields.Deadline)
	assert.Equal(t, riskimport.ValidationSummary{Total: 1, Valid: 1}, result.Summary)
}

func TestMap_ValidationErrors(t *testing.T) {
	t.Parallel()
	svc := newMappingService(t, false)

	cases := []struct {
		name string
		data map[string]string
		want string
	}{
		{
			name: "missing required",
			data: map[string]string{"Likelihood": "Likely"},
			want: "Risk name is required",
		},
		{
			name: "whitespace only required",
			data: map[string]string{"Name": "   "},
			want: "Risk name is required",
		},
		{
			name: "bad enum",
			data: map[string]string{"Name": "x", "Likelihood": "Sometimes"},
			want: "Likelihood must be one of: Rare, Unlikely, Possible, Likely, Almost Certain",
		},
		{
			name: "bad date",
			data: map[string]string{"Name": "x", "Due": "next tuesday"},
			want: "Deadline must be a valid date",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := svc.Map(riskimport.TypeProject, projectMapping, []riskimport.ParsedRow{
				{RowIndex: 1, Data: tc.data},
			})
			require.Len(t, result.Rows, 1)
			assert.False(t, result.Rows[0].IsValid)
			assert.Contains(t, result.Rows[0].Errors, tc.want)
			assert.Equal(t, 1, result.Summary.Invalid)
		})
	}
}

func TestMap_AutoCalcProject(t *testing.T) {
	t.Parallel()
	svc := newMappingService(t, true)

	result := svc.Map(riskimport.TypeProject, projectMapping, []riskimport.ParsedRow{
		{RowIndex: 1, Data: map[string]string{
			"Name": "x", "Likelihood": "Almost Certain", "Severity": "Catastrophic",
		}},
	})
	row := result.Rows[0]
	require.True(t, row.IsValid)
	require.NotNil(t, row.Fields.AutoLevel)
	assert.Equal(t, "Very high risk", *row.Fields.AutoLevel)
	// The derived level lives in its own field; a user-entered level is
	// never overwritten.
	assert.Nil(t, row.Fields.CurrentLevel)
}

func TestMap_AutoCalcVendorMatrixWinsOverSuppliedLevel(t *testing.T) {
	t.Parallel()
	svc := newMappingService(t, true)
	mapping := map[string]string{
		"Description": riskimport.FieldRiskDescription,
		"Likelihood":  riskimport.FieldLikelihood,
		"Impact":      riskimport.FieldImpact,
		"Level":       riskimport.FieldRiskLevel,
	}

	result := svc.Map(riskimport.TypeVendor, mapping, []riskimport.ParsedRow{
		{RowIndex: 1, Data: map[string]string{
			"Description": "Vendor has no DR plan", "Likelihood": "Very likely", "Impact": "Severe",
		}},
		{RowIndex: 2, Data: map[string]string{
			"Description": "x", "Likelihood": "Very likely", "Impact": "Severe", "Level": "Low risk",
		}},
		{RowIndex: 3, Data: map[string]string{
			"Description": "y", "Likelihood": "Very likely", "Level": "Low risk",
		}},
	})
	require.NotNil(t, result.Rows[0].Fields.RiskLevel)
	assert.Equal(t, "Very high risk", *result.Rows[0].Fields.RiskLevel)
	// A matrix hit replaces whatever level the file carried.
	require.NotNil(t, result.Rows[1].Fields.RiskLevel)
	assert.Equal(t, "Very high risk", *result.Rows[1].Fields.RiskLevel)
	// Without both matrix inputs the supplied level stays.
	require.NotNil(t, result.Rows[2].Fields.RiskLevel)
	assert.Equal(t, "Low risk", *result.Rows[2].Fields.RiskLevel)
}

func TestMap_AutoCalcDisabled(t *testing.T) {
	t.Parallel()
	svc := newMappingService(t, false)

	result := svc.Map(riskimport.TypeProject, projectMapping, []riskimport.ParsedRow{
		{RowIndex: 1, Data: map[string]string{
			"Name": "x", "Likelihood": "Likely", "Severity": "Major",
		}},
	})
	assert.Nil(t, result.Rows[0].Fields.AutoLevel)
}

func TestMap_IsIdempotent(t *testing.T) {
	t.Parallel()
	svc := newMappingService(t, true)
	rows := []riskimport.ParsedRow{
		{RowIndex: 1, Data: map[string]string{"Name": "x", "Likelihood": "Likely", "Severity": "Major"}},
		{RowIndex: 2, Data: map[string]string{"Likelihood": "Sometimes"}},
	}

	first := svc.Map(riskimport.TypeProject, projectMapping, rows)
	second := svc.Map(riskimport.TypeProject, projectMapping, rows)
	assert.Equal(t, first, second)
}
