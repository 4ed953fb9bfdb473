package cli

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pomodo/internal/ui/tui"
)

// TUICmd returns the terminal host command.
func TUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the timer in the terminal",
		Long: `Run the timer as a full screen terminal UI.

Keys: space start/pause, r reset, s skip break, ? help, q quit.
Logs go to the state directory unless log_file is configured.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	session, err := openSession(cmd, logToFile)
	if err != nil {
		return err
	}
	defer session.Close()

	core := session.app
	runner := core.Runner()
	events := runner.Subscribe(16)

	ctx, cancel := context.WithCancel(cmd.Context())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		core.Run(ctx)
	}()

	options := []tui.Option{tui.WithNowPlaying(core.NowPlaying)}
	err = tui.Run(runner, events, core.Settings().Theme, options, tea.WithAltScreen(), tea.WithContext(ctx))
	cancel()
	wg.Wait()
	return err
}
