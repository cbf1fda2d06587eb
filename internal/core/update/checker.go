// Package update decides whether a newer build is available and, when
// allowed, installs it before signaling that the process should restart.
package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"

	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/errors"
)

// Updater installs a new build. progress shows a status message on screen.
type Updater interface {
	Update(ctx context.Context, version string, progress func(message string) error) error
}

// Checker compares announced versions against the running build.
type Checker struct {
	current         string
	allowSelfUpdate bool
	updater         Updater
	publisher       display.Publisher
	logger          *zerolog.Logger
}

// NewChecker creates a checker for the running build version. A nil
// updater only signals that an update is available.
func NewChecker(current string, allowSelfUpdate bool, updater Updater, publisher display.Publisher, logger *zerolog.Logger) *Checker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Checker{
		current:         current,
		allowSelfUpdate: allowSelfUpdate,
		updater:         updater,
		publisher:       publisher,
		logger:          logger,
	}
}

// Check handles an announced latest version. It reports whether the version
// was newer; in that case the update-ready signal has been published.
func (checker *Checker) Check(ctx context.Context, latest string) (bool, error) {
	if !semver.IsValid(canonical(latest)) {
		return false, &errors.ReadError{Err: fmt.Errorf("invalid version %q", latest)}
	}
	if !semver.IsValid(canonical(checker.current)) {
		checker.logger.Debug().
			Str("current", checker.current).
			Str("latest", latest).
			Msg("running an unversioned build, skipping update check")
		return false, nil
	}
	if !IsNewer(checker.current, latest) {
		return false, nil
	}

	checker.logger.Info().
		Str("current", checker.current).
		Str("latest", latest).
		Bool("self_update", checker.allowSelfUpdate).
		Msg("newer version available")

	if checker.allowSelfUpdate && checker.updater != nil {
		progress := func(message string) error {
			return checker.publisher.Publish(ctx, display.StateEvent(display.Logo(message)))
		}
		if err := checker.updater.Update(ctx, latest, progress); err != nil {
			return true, fmt.Errorf("update to %s: %w", latest, err)
		}
	}

	if err := checker.publisher.Publish(ctx, display.UpdateReadyEvent(latest)); err != nil {
		return true, err
	}
	return true, nil
}

// IsNewer reports whether latest is a higher semantic version than current.
func IsNewer(current, latest string) bool {
	currentVersion, latestVersion := canonical(current), canonical(latest)
	if !semver.IsValid(currentVersion) || !semver.IsValid(latestVersion) {
		return false
	}
	return semver.Compare(latestVersion, currentVersion) > 0
}

func canonical(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}

