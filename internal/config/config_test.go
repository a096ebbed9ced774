package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"defaultDriver": "simagic",
		"capture": { "interface": "usbmon3", "warmupMs": 500 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffbtrace.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "simagic", viper.GetString("defaultDriver"))
	assert.Equal(t, "usbmon3", viper.GetString("capture.interface"))
	assert.Equal(t, 500, viper.GetInt("capture.warmupMs"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffbtrace.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./runs", viper.GetString("runsDir"))
	assert.Equal(t, "evdev", viper.GetString("defaultDriver"))
	assert.Equal(t, 2000, viper.GetInt("capture.warmupMs"))
	assert.False(t, viper.GetBool("graylog.enabled"))
	assert.False(t, viper.GetBool("influx.enabled"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, 2000, GetInt("capture.warmupMs"))
	assert.False(t, GetBool("archive.enabled"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffbtrace.cfg.json"), []byte(`{not json`), 0644))

	assert.Error(t, Load(dir))
}
