package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dasgefolge/sil/internal/core/model"
)

type options struct {
	conditional  bool
	light        bool
	mockEvent    bool
	noSelfUpdate bool
	windowed     bool
	wsURL        string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           appName,
		Short:         "Show the current event on the beamer",
		Long:          "sil shows clocks and countdowns for the currently running Gefolge event on a fullscreen display.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBeamer(cmd.Context(), cmd.Flags(), opts)
		},
	}

	flags := root.Flags()
	flags.BoolVar(&opts.conditional, "conditional", false, "exit on startup if there is no current event or the session is remote")
	flags.BoolVarP(&opts.light, "light", "l", false, "use a light theme with mostly white backgrounds and black text")
	flags.BoolVar(&opts.mockEvent, "mock-event", false, "show a fake event in Europe/Berlin instead of connecting")
	flags.BoolVar(&opts.noSelfUpdate, "no-self-update", false, "only restart when a newer version is announced, never install it")
	flags.BoolVarP(&opts.windowed, "windowed", "w", false, "run in a window instead of fullscreen")
	flags.StringVar(&opts.wsURL, "ws-url", "", "event server WebSocket URL")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(newAutostartCmd(), newSettingsCmd())
	return root
}

// applyFlags overrides settings with the flags given on the command line.
func applyFlags(settings model.Settings, flags *pflag.FlagSet, opts *options) model.Settings {
	if flags.Changed("light") {
		settings.Light = opts.light
	}
	if flags.Changed("windowed") {
		settings.Windowed = opts.windowed
	}
	if flags.Changed("no-self-update") {
		settings.SelfUpdate = !opts.noSelfUpdate
	}
	if flags.Changed("ws-url") && opts.wsURL != "" {
		settings.WebSocketURL = opts.wsURL
	}
	if flags.Changed("log-level") && opts.logLevel != "" {
		settings.LogLevel = opts.logLevel
	}
	return settings
}
