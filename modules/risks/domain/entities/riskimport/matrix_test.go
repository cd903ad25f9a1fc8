package riskimport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
)

func TestLevel_ProjectMatrix(t *testing.T) {
	t.Parallel()
	cases := []struct {
		likelihood string
		severity   string
		want       string
	}{
		{"Almost Certain", "Catastrophic", "Very high risk"},
		{"Rare", "Negligible", "No risk"},
		{"Possible", "Moderate", "Medium risk"},
		{"Likely", "Catastrophic", "Very high risk"},
		{"Rare", "Catastrophic", "Low risk"},
	}
	for _, tc := range cases {
		level, ok := riskimport.Level(riskimport.TypeProject, tc.likelihood, tc.severity)
		require.True(t, ok, "%s x %s", tc.likelihood, tc.severity)
		assert.Equal(t, tc.want, level)
	}
}

func TestLevel_IsPure(t *testing.T) {
	t.Parallel()
	first, ok := riskimport.Level(riskimport.TypeProject, "Likely", "Major")
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := riskimport.Level(riskimport.TypeProject, "Likely", "Major")
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestLevel_MissReturnsNoLevel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		riskType   riskimport.RiskType
		likelihood string
		severity   string
	}{
		{"empty likelihood", riskimport.TypeProject, "", "Major"},
		{"empty severity", riskimport.TypeProject, "Likely", ""},
		{"unknown labels", riskimport.TypeProject, "Sometimes", "Bad"},
		{"project labels against vendor matrix", riskimport.TypeVendor, "Almost Certain", "Catastrophic"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			level, ok := riskimport.Level(tc.riskType, tc.likelihood, tc.severity)
			assert.False(t, ok)
			assert.Empty(t, level)
		})
	}
}

func TestLevel_VendorMatrix(t *testing.T) {
	t.Parallel()
	level, ok := riskimport.Level(riskimport.TypeVendor, "Very likely", "Severe")
	require.True(t, ok)
	assert.Equal(t, "Very high risk", level)

	level, ok = riskimport.Level(riskimport.TypeVendor, "Very unlikely", "Insignificant")
	require.True(t, ok)
	assert.Equal(t, "Very low risk", level)
}
