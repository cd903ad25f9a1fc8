package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/modules/risks/services"
	"github.com/riskdesk/riskdesk/pkg/spreadsheet"
)

func TestTemplate_CSVRoundTripsThroughDecode(t *testing.T) {
	t.Parallel()
	svc := services.NewTemplateService()

	tmpl, err := svc.Render(riskimport.TypeProject, "csv")
	require.NoError(t, err)
	assert.Equal(t, "project_risk_import_template.csv", tmpl.Filename)
	assert.Equal(t, "text/csv", tmpl.ContentType)

	records, err := spreadsheet.ReadCSV(tmpl.Data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	labels := make([]string, 0, len(records[0]))
	labels = append(labels, records[0]...)
	for _, def := range riskimport.Schema(riskimport.TypeProject) {
		assert.Contains(t, labels, def.Label)
	}
}

func TestTemplate_XLSX(t *testing.T) {
	t.Parallel()
	svc := services.NewTemplateService()

	tmpl, err := svc.Render(riskimport.TypeVendor, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "vendor_risk_import_template.xlsx", tmpl.Filename)

	records, err := spreadsheet.ReadXLSX(tmpl.Data)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "Risk description", records[0][0])
}

func TestTemplate_UnknownFormatRejected(t *testing.T) {
	t.Parallel()
	svc := services.NewTemplateService()
	_, err := svc.Render(riskimport.TypeProject, "pdf")
	assert.ErrorIs(t, err, services.ErrUnsupportedFormat)
}
