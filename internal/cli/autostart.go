package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pomodo/internal/config"
	"pomodo/internal/platform"
	"pomodo/internal/storage"
)

// AutostartCmd returns the launch-at-login commands.
func AutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Start the tray at login",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Register pomodo to start at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetAutostart(cmd, true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Remove the login item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetAutostart(cmd, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether the login item is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enabled, err := platform.NewAutostart(config.AppName).Enabled()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), autostartStatus(enabled))
			return nil
		},
	})
	return cmd
}

func runSetAutostart(cmd *cobra.Command, enabled bool) error {
	path, err := storage.SettingsPath(config.AppName)
	if err != nil {
		return err
	}
	return setAutostart(cmd, platform.NewAutostart(config.AppName), path, enabled)
}

// setAutostart changes the login item and records the choice in the
// settings file at path so the preferences window agrees.
func setAutostart(cmd *cobra.Command, autostart platform.Autostart, path string, enabled bool) error {
	if err := platform.SyncAutostart(autostart, enabled); err != nil {
		return err
	}

	settings, err := storage.LoadSettings(path)
	if err != nil {
		return err
	}
	settings.LaunchAtLogin = enabled
	if err := storage.SaveSettings(path, settings); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), autostartStatus(enabled))
	return nil
}

func autostartStatus(enabled bool) string {
	if enabled {
		return "pomodo starts at login"
	}
	return "pomodo does not start at login"
}
