package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskdesk/riskdesk/modules/risks/services"
	"github.com/riskdesk/riskdesk/pkg/configuration"
	"github.com/riskdesk/riskdesk/pkg/spreadsheet"
)

func newDecodeService(t *testing.T) *services.DecodeService {
	t.Helper()
	conf := &configuration.Configuration{
		RiskImport: configuration.RiskImportOptions{
			MaxFileSize: 1024 * 1024,
			PreviewRows: 2,
		},
	}
	return services.NewDecodeService(conf)
}

func TestDecode_CSV(t *testing.T) {
	t.Parallel()
	svc := newDecodeService(t)

	csv := "\uFEFF Risk name ,Likelihood,Severity\n" +
		" Server outage ,Likely,Major\n" +
		",,\n" +
		"Data breach,Rare,Catastrophic\n"

	result, err := svc.Decode("risks.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"Risk name", "Likelihood", "Severity"}, result.Headers)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.TotalRows)

	// Row indexes count data rows in the source file, blank rows included,
	// so errors later point at the right line.
	assert.Equal(t, 1, result.Rows[0].RowIndex)
	assert.Equal(t, 3, result.Rows[1].RowIndex)
	// Cell values come back trimmed, like the headers.
	assert.Equal(t, "Server outage", result.Rows[0].Data["Risk name"])
	assert.Equal(t, "Catastrophic", result.Rows[1].Data["Severity"])
}

func TestDecode_RaggedRowsFillEmpty(t *testing.T) {
	t.Parallel()
	svc := newDecodeService(t)

	result, err := svc.Decode("risks.csv", []byte("Risk name,Likelihood\nServer outage\n"))
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "", result.Rows[0].Data["Likelihood"])
}

func TestDecode_PreviewIsCapped(t *testing.T) {
	t.Parallel()
	svc := newDecodeService(t)

	var sb strings.Builder
	sb.WriteString("Risk name\n")
	for i := 0; i < 10; i++ {
		sb.WriteString("Risk\n")
	}
	result, err := svc.Decode("risks.csv", []byte(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, 10, result.TotalRows)
	assert.Len(t, result.Preview, 2)
}

func TestDecode_XLSX(t *testing.T) {
	t.Parallel()
	svc := newDecodeService(t)

	data, err := spreadsheet.WriteXLSX("Risks", []string{"Risk name", "Owner"}, [][]string{
		{"Server outage", "Jane"},
	})
	require.NoError(t, err)

	result, err := svc.Decode("risks.xlsx", data)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Jane", result.Rows[0].Data["Owner"])
}

func TestDecode_Rejections(t *testing.T) {
	t.Parallel()
	svc := newDecodeService(t)

	_, err := svc.Decode("risks.pdf", []byte("whatever"))
	assert.ErrorIs(t, err, services.ErrUnsupportedFormat)

	_, err = svc.Decode("risks.csv", make([]byte, 2*1024*1024))
	assert.ErrorIs(t, err, services.ErrFileTooLarge)

	_, err = svc.Decode("risks.csv", []byte(""))
	assert.ErrorIs(t, err, services.ErrEmptyFile)

	// A header with no data rows is still an empty file.
	_, err = svc.Decode("risks.csv", []byte("Risk name,Severity\n"))
	assert.ErrorIs(t, err, services.ErrEmptyFile)

	_, err = svc.Decode("risks.csv", []byte("Risk name\n,\n  ,  \n"))
	assert.ErrorIs(t, err, services.ErrEmptyFile)

	// Legacy binary .xls (OLE2 magic) cannot be opened as a workbook and is
	// rejected as an input error, not an internal one.
	ole2 := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	_, err = svc.Decode("risks.xls", ole2)
	assert.ErrorIs(t, err, services.ErrUnsupportedFormat)
}
