package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dasgefolge/sil/internal/platform"
)

func newAutostartCmd() *cobra.Command {
	autostart := &cobra.Command{
		Use:   "autostart",
		Short: "Manage starting the beamer on login",
	}
	autostart.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Start the beamer on login when an event is running",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				entry, err := autostartEntry()
				if err != nil {
					return err
				}
				if err := platform.NewService().EnableAutostart(entry); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "autostart enabled for %s\n", entry.Exec)
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop starting the beamer on login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := platform.NewService().DisableAutostart(platform.Autostart{Name: appName}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
				return nil
			},
		},
	)
	return autostart
}

func autostartEntry() (platform.Autostart, error) {
	executable, err := os.Executable()
	if err != nil {
		return platform.Autostart{}, fmt.Errorf("resolve executable: %w", err)
	}
	return platform.Autostart{
		Name: appName,
		Exec: executable,
		Args: []string{"--conditional"},
	}, nil
}
