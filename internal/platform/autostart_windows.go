//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(entry Autostart) error {
	if err := entry.validate("enable"); err != nil {
		return err
	}

	fields := []string{quoteWindowsPath(entry.Exec)}
	for _, argument := range entry.Args {
		if strings.ContainsAny(argument, " \t") {
			argument = quoteWindowsPath(argument)
		}
		fields = append(fields, argument)
	}

	command := exec.Command(
		"reg", "add", registryRunKey,
		"/v", entry.Name,
		"/t", "REG_SZ",
		"/d", strings.Join(fields, " "),
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (service *platformService) DisableAutostart(entry Autostart) error {
	if err := entry.validate("disable"); err != nil {
		return err
	}

	command := exec.Command("reg", "delete", registryRunKey, "/v", entry.Name, "/f")
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(path string) string {
	return fmt.Sprintf(`"%s"`, strings.Trim(path, `"`))
}
