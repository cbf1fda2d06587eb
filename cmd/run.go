package main

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/dasgefolge/sil/internal/asset"
	"github.com/dasgefolge/sil/internal/config"
	"github.com/dasgefolge/sil/internal/core/display"
	"github.com/dasgefolge/sil/internal/core/model"
	"github.com/dasgefolge/sil/internal/core/session"
	"github.com/dasgefolge/sil/internal/core/update"
	"github.com/dasgefolge/sil/internal/errors"
	"github.com/dasgefolge/sil/internal/logging"
	"github.com/dasgefolge/sil/internal/platform"
	"github.com/dasgefolge/sil/internal/storage"
	"github.com/dasgefolge/sil/internal/transport"
	"github.com/dasgefolge/sil/internal/ui/beamer"
	"github.com/dasgefolge/sil/internal/ui/preferences"
	"github.com/dasgefolge/sil/internal/ui/tray"
	"github.com/dasgefolge/sil/resources"
)

const (
	busBuffer   = 32
	maxLogoSize = 1024
)

// exitReason records the first reason the beamer shut itself down.
type exitReason struct {
	once sync.Once
	err  error
}

func (reason *exitReason) set(err error) {
	reason.once.Do(func() { reason.err = err })
}

func (reason *exitReason) get() error {
	reason.once.Do(func() {})
	return reason.err
}

func runBeamer(ctx context.Context, flags *pflag.FlagSet, opts *options) error {
	settings, settingsErr := storage.LoadSettings(storage.AppName)
	settings = applyFlags(settings, flags, opts)

	logConfig := logging.DefaultConfig()
	logConfig.Level = settings.LogLevel
	logConfig.Format = settings.LogFormat
	logConfig = logging.FromEnv(logConfig)
	if flags.Changed("log-level") {
		logConfig.Level = opts.logLevel
	}
	logger := logging.New(logConfig)
	if settingsErr != nil {
		logger.Warn().Err(settingsErr).Msg("failed to load settings, using defaults")
	}

	if opts.conditional {
		if variable, remote := platform.RemoteSession(); remote {
			logger.Info().Str("variable", variable).Msg("started from a remote session, exiting")
			return nil
		}
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	sessionConfig := settings.SessionConfig()
	sessionConfig.MockEvent = opts.mockEvent
	sessionConfig.Conditional = opts.conditional

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := display.NewBus(busBuffer, sessionConfig.SendTimeout, &logger)
	defer bus.Close()

	fyneApp := app.NewWithID("org.gefolge.sil")
	fyneApp.SetIcon(resources.AppIcon())

	var reason exitReason
	quit := func(err error) {
		reason.set(err)
		cancel()
		fyne.Do(fyneApp.Quit)
	}

	var trayManager *tray.Manager
	window := beamer.New(fyneApp, beamer.Config{
		Title:    appName,
		Light:    settings.Light,
		Windowed: settings.Windowed,
	}, beamer.Callbacks{
		OnState: func(state display.State) {
			if trayManager != nil {
				trayManager.SetState(state)
			}
		},
		OnUpdateReady: func(latest string) {
			quit(fmt.Errorf("%w: %s", errors.ErrUpdateRequired, latest))
		},
	}, &logger)

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		prefsWindow := preferences.New(fyneApp, settings, func(updated model.Settings) {
			if err := storage.SaveSettings(storage.AppName, updated); err != nil {
				logger.Error().Err(err).Msg("failed to save settings")
				return
			}
			window.SetLight(updated.Light)
		})
		trayManager = tray.New(desktopApp, appName, tray.Callbacks{
			OnPreferences: prefsWindow.Show,
			OnQuit:        func() { quit(nil) },
		})
		desktopApp.SetSystemTrayIcon(resources.AppIcon())
	} else {
		logger.Debug().Msg("system tray unsupported on this platform")
	}

	checker := update.NewChecker(version, sessionConfig.AllowSelfUpdate, newUpdater(settings, &logger), bus, &logger)
	beamerSession := session.New(sessionConfig, session.Dependencies{
		Publisher: bus,
		Dialer:    transport.NewWebSocketDialer(&logger),
		APIKey: func() (string, error) {
			client, err := config.Load()
			if err != nil {
				return "", err
			}
			logger.Debug().Str("path", client.Path).Msg("loaded client config")
			return client.APIKey, nil
		},
		Checker: checker,
		Logger:  &logger,
	})

	go window.Run(ctx, bus.Events())
	go runLoader(ctx, settings, bus, &logger)
	go func() {
		err := beamerSession.Maintain(ctx)
		if errors.Is(err, errors.ErrNoEvent) {
			logger.Info().Msg("no current event, exiting")
			quit(err)
		}
	}()
	go func() {
		<-ctx.Done()
		quit(nil)
	}()

	logger.Info().
		Str("version", version).
		Str("ws_url", sessionConfig.WebSocketURL).
		Bool("mock_event", sessionConfig.MockEvent).
		Msg("starting beamer")

	window.Show()
	fyneApp.Run()
	return reason.get()
}

func newUpdater(settings model.Settings, logger *zerolog.Logger) update.Updater {
	updater, err := platform.NewUpdater(settings.UpdateStrategy, settings.UpdateSource, settings.UpdateTarget)
	if err != nil {
		logger.Warn().Err(err).Msg("self-update disabled")
		return nil
	}
	return updater
}

func runLoader(ctx context.Context, settings model.Settings, publisher display.Publisher, logger *zerolog.Logger) {
	fallback, err := resources.DecodeIcon("beamer.png")
	if err != nil {
		logger.Debug().Err(err).Msg("no fallback logo")
	}
	loader, err := asset.NewLoader(storage.AppName, asset.Config{
		URL:       settings.LogoURL,
		MaxWidth:  maxLogoSize,
		MaxHeight: maxLogoSize,
		Fallback:  fallback,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("logo loader unavailable")
		_ = publisher.Publish(ctx, display.AssetFailedEvent(err))
		return
	}
	loader.Run(ctx, publisher)
}
