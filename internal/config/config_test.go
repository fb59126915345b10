package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Phone.AllowForeign)
	assert.True(t, cfg.Send.Consolidate)
	assert.Equal(t, 3, cfg.Send.DelayMinSecs)
	assert.Equal(t, 5, cfg.Send.DelayMaxSecs)
	assert.Equal(t, []string{"PREMIUM", "SUPERIOR"}, cfg.Send.ExcludedLotTypes)
	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.Equal(t, "progreso.json", cfg.Progress.File)
	assert.Equal(t, "RecordatorioCita", cfg.Template.Default)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
phone:
  allow_foreign: false
send:
  delay_min_secs: 10
  delay_max_secs: 20
  excluded_lot_types: ["PREMIUM"]
bridge:
  base_url: http://bridge:9000
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Phone.AllowForeign)
	assert.Equal(t, 10, cfg.Send.DelayMinSecs)
	assert.Equal(t, 20, cfg.Send.DelayMaxSecs)
	assert.Equal(t, []string{"PREMIUM"}, cfg.Send.ExcludedLotTypes)
	assert.Equal(t, "http://bridge:9000", cfg.Bridge.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OUTREACH_PROGRESS_FILE", "other.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "other.json", cfg.Progress.File)
}

func TestBridgeConfig_Timeouts(t *testing.T) {
	cfg := BridgeConfig{ConnectTimeoutSecs: 30, RequestTimeoutSecs: 15}
	assert.Equal(t, "30s", cfg.ConnectTimeout().String())
	assert.Equal(t, "15s", cfg.RequestTimeout().String())
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}

// chdirTemp switches the working directory to a fresh temp dir so Load never
// picks up a developer's config.yaml.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}
