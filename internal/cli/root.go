// Package cli holds the cobra commands of the pomodo binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"pomodo/internal/app"
	"pomodo/internal/config"
	"pomodo/internal/platform"
	"pomodo/internal/ui/desktop"
)

// RootCmd returns the pomodo command. Without a subcommand it starts the
// tray host.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pomodo",
		Short: "Pomodoro timer that fades your music out during breaks",
		Long: `pomodo runs work and break sessions in the system tray or the terminal.

When a playback backend is configured (Spotify or any MPRIS player) it fades
the music out and pauses it when a break starts, and fades it back in when
work resumes.`,
		SilenceUsage: true,
		RunE:         runTray,
	}

	cmd.PersistentFlags().String("config", "", "Read configuration from this TOML file only")
	cmd.PersistentFlags().String("log-level", "", "Override the configured log level")

	cmd.AddCommand(TUICmd())
	cmd.AddCommand(StatsCmd())
	cmd.AddCommand(SpotifyCmd())
	cmd.AddCommand(AutostartCmd())
	return cmd
}

func runTray(cmd *cobra.Command, _ []string) error {
	guard, err := platform.AcquireSingleInstance(config.AppName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		if err := platform.ActivateRunning(config.AppName); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "pomodo is already running")
		return nil
	}
	if err != nil {
		return err
	}
	defer guard.Release()

	session, err := openSession(cmd, nil)
	if err != nil {
		return err
	}
	defer session.Close()

	return desktop.Run(cmd.Context(), session.app, guard)
}

// loadConfig reads the config files and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFiles(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if level != "" {
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// appSession is an opened App plus the resources that must be released
// with it.
type appSession struct {
	app       *app.App
	logger    hclog.Logger
	logCloser io.Closer
}

func (session *appSession) Close() error {
	return errors.Join(session.app.Close(), session.logCloser.Close())
}

// openSession loads config, builds the logger and opens the App. adjust,
// when set, may change the config before the logger is created.
func openSession(cmd *cobra.Command, adjust func(*config.Config) error) (*appSession, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		if err := adjust(cfg); err != nil {
			return nil, err
		}
	}
	logger, logCloser, err := app.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	core, err := app.Open(ctx, app.Options{Config: cfg, Logger: logger})
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	return &appSession{app: core, logger: logger, logCloser: logCloser}, nil
}

// logToFile sends logs to the state directory when no file is configured,
// so they do not draw over a full screen terminal UI.
func logToFile(cfg *config.Config) error {
	if cfg.LogFile != "" {
		return nil
	}
	path, err := xdg.StateFile(filepath.Join(config.AppName, "pomodo.log"))
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	cfg.LogFile = path
	return nil
}
