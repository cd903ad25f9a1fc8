package spreadsheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskdesk/riskdesk/pkg/spreadsheet"
)

func TestReadCSV_StripsBOMAndAllowsRaggedRows(t *testing.T) {
	t.Parallel()
	data := []byte("\xEF\xBB\xBFName,Description\nServer outage,DB unreachable\nShort row\n")

	records, err := spreadsheet.ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Description"}, records[0])
	assert.Equal(t, []string{"Server outage", "DB unreachable"}, records[1])
	assert.Equal(t, []string{"Short row"}, records[2])
}

func TestReadCSV_Empty(t *testing.T) {
	t.Parallel()
	records, err := spreadsheet.ReadCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestXLSX_RoundTrip(t *testing.T) {
	t.Parallel()
	header := []string{"Risk name", "Severity"}
	rows := [][]string{
		{"Server outage", "Major"},
		{"Key person leaves", "Moderate"},
	}

	data, err := spreadsheet.WriteXLSX("Risks", header, rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := spreadsheet.ReadXLSX(data)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	assert.Equal(t, header, decoded[0])
	assert.Equal(t, rows[0], decoded[1])
	assert.Equal(t, rows[1], decoded[2])
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()
	data, err := spreadsheet.WriteCSV([]string{"A", "B"}, [][]string{{"1", "2"}})
	require.NoError(t, err)
	assert.Equal(t, "A,B\n1,2\n", string(data))
}
