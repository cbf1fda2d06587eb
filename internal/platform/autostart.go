package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart describes the login item that launches the beamer.
type Autostart struct {
	// Name is shown by the desktop environment and derives the file name.
	Name string
	Exec string
	Args []string
}

func (entry Autostart) validate(op string) error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%s autostart: app name is empty", op)
	}
	if op == "enable" && entry.Exec == "" {
		return fmt.Errorf("%s autostart: exec path is empty", op)
	}
	return nil
}

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(entry Autostart) error
	DisableAutostart(entry Autostart) error
}

type platformService struct {
	configDir string
}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// NewServiceWithConfigDir returns a service rooted at a fixed config dir.
func NewServiceWithConfigDir(configDir string) Service {
	return &platformService{configDir: configDir}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	if service.configDir != "" {
		return service.configDir, nil
	}
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "-")
}
