//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopEntryLifecycle(t *testing.T) {
	configDir := t.TempDir()
	service := NewServiceWithConfigDir(configDir)
	entry := Autostart{Name: "Gefolge Beamer", Exec: "/opt/sil bin/sil", Args: []string{"--conditional"}}

	require.NoError(t, service.EnableAutostart(entry))

	path := filepath.Join(configDir, "autostart", "gefolge-beamer.desktop")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name=Gefolge Beamer\n")
	assert.Contains(t, string(content), "Exec=\"/opt/sil bin/sil\" --conditional\n")

	require.NoError(t, service.DisableAutostart(entry))
	assert.NoFileExists(t, path)
	require.NoError(t, service.DisableAutostart(entry), "disabling twice is fine")
}

func TestQuoteExecField(t *testing.T) {
	assert.Equal(t, "/usr/bin/sil", quoteExecField("/usr/bin/sil"))
	assert.Equal(t, `"a b"`, quoteExecField("a b"))
	assert.Equal(t, `"\$HOME"`, quoteExecField("$HOME"))
	assert.Equal(t, `""`, quoteExecField(""))
}
