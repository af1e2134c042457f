package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
name: "portfolio-simulator"
host: "127.0.0.1"
port: 8501
log_level: "INFO"

storage:
  db_type: "sqlite"
  db_path: "test.db"
  retention_days: 90

network:
  timeout: 15
  retries: 3
  concurrent_requests: 4

data_source:
  provider: "yahoo"
  lookback_days: 730
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigValid(t *testing.T) {
	conf, err := NewConfig(writeTempConfig(t, validYAML))

	require.NoError(t, err)
	assert.Equal(t, "portfolio-simulator", conf.Name)
	assert.Equal(t, 8501, conf.Port)
	assert.Equal(t, "sqlite", conf.Storage.DBType)
}

func TestNewConfigAppliesDefaults(t *testing.T) {
	conf, err := NewConfig(writeTempConfig(t, validYAML))

	require.NoError(t, err)
	assert.Equal(t, 1000, conf.Analysis.Simulations.Default)
	assert.Equal(t, 500, conf.Analysis.Simulations.Min)
	assert.Equal(t, 5000, conf.Analysis.Simulations.Max)
	assert.Equal(t, 252, conf.Analysis.HorizonDays.Default)
	assert.Equal(t, 5000, conf.Analysis.FrontierCandidates)
	assert.Equal(t, 256, conf.DataSource.CacheMaxSymbols)
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewConfigBadYAML(t *testing.T) {
	_, err := NewConfig(writeTempConfig(t, "name: [unclosed"))
	assert.Error(t, err)
}

func TestValidateRejectsBadPort(t *testing.T) {
	conf, err := NewConfig(writeTempConfig(t, validYAML))
	require.NoError(t, err)

	conf.Port = 80
	assert.Error(t, conf.Validate())

	conf.Port = 70000
	assert.Error(t, conf.Validate())
}

func TestValidateRejectsSQLiteWithoutPath(t *testing.T) {
	conf, err := NewConfig(writeTempConfig(t, validYAML))
	require.NoError(t, err)

	conf.Storage.DBPath = ""
	assert.Error(t, conf.Validate())
}

func TestValidateRejectsBadBounds(t *testing.T) {
	conf, err := NewConfig(writeTempConfig(t, validYAML))
	require.NoError(t, err)

	conf.Analysis.Simulations.Default = 10 // Below min
	err = conf.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "simulations")
}

func TestValidateRejectsEmptyProvider(t *testing.T) {
	conf, err := NewConfig(writeTempConfig(t, validYAML))
	require.NoError(t, err)

	conf.DataSource.Provider = ""
	assert.Error(t, conf.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	conf, err := NewConfig(writeTempConfig(t, validYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, conf.Save(path))

	reloaded, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, conf.Name, reloaded.Name)
	assert.Equal(t, conf.Analysis.Simulations, reloaded.Analysis.Simulations)
}
