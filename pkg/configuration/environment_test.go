package configuration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Configuration {
	t.Helper()
	t.Setenv("LOG_PATH", filepath.Join(t.TempDir(), "app.log"))
	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)
	return c
}

func TestConfiguration_Defaults(t *testing.T) {
	c := testConfig(t)

	assert.Equal(t, int64(10*1024*1024), c.RiskImport.MaxFileSize)
	assert.Equal(t, 5, c.RiskImport.PreviewRows)
	assert.Equal(t, "project", c.RiskImport.DefaultRiskType)
	assert.Equal(t, "create", c.RiskImport.DefaultAction)
	assert.True(t, c.RiskImport.AutoCalcEnabled)
	assert.Equal(t, "disabled", c.RLSEnforce)
	assert.Equal(t, "localhost:3200", c.SocketAddress)
}

func TestConfiguration_ImportOverrides(t *testing.T) {
	t.Setenv("RISK_IMPORT_MAX_FILE_SIZE", "1024")
	t.Setenv("RISK_IMPORT_PREVIEW_ROWS", "10")
	t.Setenv("RISK_IMPORT_DEFAULT_TYPE", "vendor")
	t.Setenv("RISK_IMPORT_AUTO_CALC", "false")

	c := testConfig(t)

	assert.Equal(t, int64(1024), c.RiskImport.MaxFileSize)
	assert.Equal(t, 10, c.RiskImport.PreviewRows)
	assert.Equal(t, "vendor", c.RiskImport.DefaultRiskType)
	assert.False(t, c.RiskImport.AutoCalcEnabled)
}

func TestConfiguration_InvalidImportType(t *testing.T) {
	t.Setenv("RISK_IMPORT_DEFAULT_TYPE", "portfolio")
	t.Setenv("LOG_PATH", filepath.Join(t.TempDir(), "app.log"))

	c := &Configuration{}
	err := c.load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISK_IMPORT_DEFAULT_TYPE")
}

func TestConfiguration_RLSRequiresNonSuperuser(t *testing.T) {
	t.Setenv("RLS_ENFORCE", "enforce")
	t.Setenv("LOG_PATH", filepath.Join(t.TempDir(), "app.log"))

	c := &Configuration{}
	err := c.load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-superuser")
}
