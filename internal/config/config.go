// Package config loads the client credential used to authenticate against
// the event server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dasgefolge/sil/internal/errors"
)

const (
	// RelativePath is the location of the client config below an XDG config dir.
	RelativePath = "fidera/client-config.json"

	// APIKeyEnv overrides the api key from the config file.
	APIKeyEnv = "FIDERA_API_KEY"

	keyAPIKey = "apiKey"
)

// Client is the client configuration.
type Client struct {
	APIKey string
	// Path is the file the config was read from, empty when it came from
	// the environment alone.
	Path string
}

// Load reads the client config from the XDG config directories.
// Environment variables (including .env files) take precedence.
func Load() (Client, error) {
	loadEnvFiles()
	return LoadFrom(SearchPaths())
}

// LoadFrom reads the first existing config file among paths.
func LoadFrom(paths []string) (Client, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.BindEnv(keyAPIKey, APIKeyEnv); err != nil {
		return Client{}, fmt.Errorf("bind env: %w", err)
	}

	var client Client
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Client{}, fmt.Errorf("read client config %s: %w", path, err)
		}
		client.Path = path
		break
	}

	client.APIKey = strings.TrimSpace(v.GetString(keyAPIKey))
	if client.APIKey == "" {
		if client.Path != "" {
			return Client{}, fmt.Errorf("%w: %s has no %s", errors.ErrConfigMissing, client.Path, keyAPIKey)
		}
		expected := RelativePath
		if len(paths) > 0 {
			expected = paths[0]
		}
		return Client{}, fmt.Errorf("%w: expected at %s", errors.ErrConfigMissing, expected)
	}
	return client, nil
}

// SearchPaths lists candidate config files, user config first.
func SearchPaths() []string {
	var dirs []string
	if home := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(home) {
		dirs = append(dirs, home)
	} else if userHome, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(userHome, ".config"))
	}

	configDirs := os.Getenv("XDG_CONFIG_DIRS")
	if configDirs == "" {
		configDirs = "/etc/xdg"
	}
	for _, dir := range filepath.SplitList(configDirs) {
		if filepath.IsAbs(dir) {
			dirs = append(dirs, dir)
		}
	}

	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(RelativePath)))
	}
	return paths
}

// loadEnvFiles loads .env files from the working directory; .env.local
// overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
