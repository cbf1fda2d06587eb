package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasgefolge/sil/internal/core/model"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestLoadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ws_url: ws://localhost:8080/api/websocket
light: true
self_update: false
update_strategy: scp
update_source: beamer@gefolge.org:/srv/sil/sil
tick_seconds: 5
`), 0o644))

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/api/websocket", settings.WebSocketURL)
	assert.Equal(t, model.DefaultLogoURL, settings.LogoURL)
	assert.True(t, settings.Light)
	assert.False(t, settings.Windowed)
	assert.False(t, settings.SelfUpdate)
	assert.Equal(t, model.UpdateSCP, settings.UpdateStrategy)
	assert.Equal(t, 5*time.Second, settings.TickInterval)
	assert.Equal(t, "info", settings.LogLevel)
}

func TestLoadSettingsRejectsUnknownStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("update_strategy: ftp\n"), 0o644))

	settings, err := LoadSettingsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestLoadSettingsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("light: [\n"), 0o644))

	_, err := LoadSettingsFile(path)
	assert.ErrorContains(t, err, "parse settings yaml")
}

func TestSaveThenLoadSettings(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	settings := model.DefaultSettings()
	settings.Windowed = true
	settings.SelfUpdate = false
	settings.UpdateStrategy = model.UpdateNixOS
	require.NoError(t, SaveSettings(AppName, settings))

	path, err := SettingsPath(AppName)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := LoadSettings(AppName)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}
