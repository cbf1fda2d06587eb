package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dasgefolge/sil/internal/core/model"
	"github.com/dasgefolge/sil/internal/storage"
)

func newSettingsCmd() *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or create the settings file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storage.SettingsPath(storage.AppName)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := storage.SaveSettingsFile(path, model.DefaultSettings()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the location of the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storage.SettingsPath(storage.AppName)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	settings.AddCommand(initCmd, pathCmd)
	return settings
}
