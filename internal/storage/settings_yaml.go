package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dasgefolge/sil/internal/core/model"
)

// AppName is the directory name used below the XDG base directories.
const AppName = "fidera"

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WebSocketURL   string `yaml:"ws_url,omitempty"`
	LogoURL        string `yaml:"logo_url,omitempty"`
	TickSeconds    int    `yaml:"tick_seconds,omitempty"`
	Light          bool   `yaml:"light"`
	Windowed       bool   `yaml:"windowed"`
	SelfUpdate     *bool  `yaml:"self_update,omitempty"`
	UpdateStrategy string `yaml:"update_strategy,omitempty"`
	UpdateSource   string `yaml:"update_source,omitempty"`
	UpdateTarget   string `yaml:"update_target,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
	LogFormat      string `yaml:"log_format,omitempty"`
}

// LoadSettings reads user preferences from YAML.
// If the settings file does not exist, default settings are returned.
func LoadSettings(appName string) (model.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return model.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from the given YAML file.
func LoadSettingsFile(configPath string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	if err := applyYamlSettings(&settings, fileData); err != nil {
		return model.DefaultSettings(), fmt.Errorf("parse settings yaml: %w", err)
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings model.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to the given YAML file.
func SaveSettingsFile(configPath string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	selfUpdate := settings.SelfUpdate
	fileData := yamlSettings{
		WebSocketURL:   settings.WebSocketURL,
		LogoURL:        settings.LogoURL,
		TickSeconds:    int(settings.TickInterval / time.Second),
		Light:          settings.Light,
		Windowed:       settings.Windowed,
		SelfUpdate:     &selfUpdate,
		UpdateStrategy: string(settings.UpdateStrategy),
		UpdateSource:   settings.UpdateSource,
		UpdateTarget:   settings.UpdateTarget,
		LogLevel:       settings.LogLevel,
		LogFormat:      settings.LogFormat,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns the location of the settings file.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) error {
	if fileData.WebSocketURL != "" {
		settings.WebSocketURL = fileData.WebSocketURL
	}
	if fileData.LogoURL != "" {
		settings.LogoURL = fileData.LogoURL
	}
	if fileData.TickSeconds > 0 {
		settings.TickInterval = time.Duration(fileData.TickSeconds) * time.Second
	}
	if fileData.SelfUpdate != nil {
		settings.SelfUpdate = *fileData.SelfUpdate
	}
	if fileData.UpdateStrategy != "" {
		strategy := model.UpdateStrategy(fileData.UpdateStrategy)
		if !strategy.Valid() {
			return fmt.Errorf("unknown update strategy %q", fileData.UpdateStrategy)
		}
		settings.UpdateStrategy = strategy
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	if fileData.LogFormat != "" {
		settings.LogFormat = fileData.LogFormat
	}

	settings.UpdateSource = fileData.UpdateSource
	settings.UpdateTarget = fileData.UpdateTarget
	settings.Light = fileData.Light
	settings.Windowed = fileData.Windowed
	return nil
}
