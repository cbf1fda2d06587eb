package model

import "time"

// UpdateStrategy selects how a newer build gets installed.
type UpdateStrategy string

const (
	UpdateNone  UpdateStrategy = "none"
	UpdateSCP   UpdateStrategy = "scp"
	UpdateNixOS UpdateStrategy = "nixos"
)

// Valid reports whether the strategy is known.
func (strategy UpdateStrategy) Valid() bool {
	switch strategy {
	case UpdateNone, UpdateSCP, UpdateNixOS:
		return true
	default:
		return false
	}
}

// Settings defines editable user preferences of the beamer.
type Settings struct {
	WebSocketURL string
	LogoURL      string
	TickInterval time.Duration

	Light    bool
	Windowed bool

	SelfUpdate     bool
	UpdateStrategy UpdateStrategy
	// UpdateSource is the scp source of new builds, e.g. host:/path/sil.
	UpdateSource string
	// UpdateTarget is the binary replaced by scp updates.
	UpdateTarget string

	LogLevel  string
	LogFormat string
}

const DefaultLogoURL = "https://gefolge.org/static/gefolge.png"

// DefaultSettings returns default settings for the beamer.
func DefaultSettings() Settings {
	session := DefaultSessionConfig()
	return Settings{
		WebSocketURL:   session.WebSocketURL,
		LogoURL:        DefaultLogoURL,
		TickInterval:   session.TickInterval,
		SelfUpdate:     true,
		UpdateStrategy: UpdateNone,
		LogLevel:       "info",
		LogFormat:      "auto",
	}
}

// SessionConfig converts settings to a SessionConfig.
func (settings Settings) SessionConfig() SessionConfig {
	config := DefaultSessionConfig()
	if settings.WebSocketURL != "" {
		config.WebSocketURL = settings.WebSocketURL
	}
	if settings.TickInterval > 0 {
		config.TickInterval = settings.TickInterval
	}
	config.AllowSelfUpdate = settings.SelfUpdate
	return config
}
