package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pomodo/internal/config"
	"pomodo/internal/storage"
)

// StatsCmd returns the statistics command.
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completed pomodoros per day",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	cmd.Flags().Int("days", 7, "Number of days to show, ending today")
	cmd.Flags().Int("sessions", 5, "Number of recent sessions to list (0 hides them)")
	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	days, _ := cmd.Flags().GetInt("days")
	limit, _ := cmd.Flags().GetInt("sessions")
	if days < 1 {
		return fmt.Errorf("--days must be at least 1, got %d", days)
	}

	path, err := storage.StatsPath(config.AppName)
	if err != nil {
		return err
	}
	stats, err := storage.OpenStats(path)
	if err != nil {
		return err
	}
	defer stats.Close()

	now := time.Now()
	history, err := stats.History(now, days)
	if err != nil {
		return err
	}
	var recent []storage.SessionRecord
	if limit > 0 {
		recent, err = stats.RecentSessions(limit)
		if err != nil {
			return err
		}
	}
	return printStats(cmd.OutOrStdout(), history, recent, now)
}

// printStats writes the daily table and the recent session log. history is
// oldest first and ends with today.
func printStats(out io.Writer, history []storage.DailyStats, recent []storage.SessionRecord, now time.Time) error {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	faint := color.New(color.Faint)

	var total storage.DailyStats
	for _, day := range history {
		total.CompletedPomodoros += day.CompletedPomodoros
		total.Focus += day.Focus
	}
	if len(history) > 0 {
		today := history[len(history)-1]
		fmt.Fprintf(out, "%s %s, %s focused\n",
			bold.Sprint("Today:"),
			green.Sprint(pomodoros(today.CompletedPomodoros)),
			formatFocus(today.Focus))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPOMODOROS\tFOCUS\t")
	fmt.Fprintln(w, "----\t---------\t-----\t")
	for _, day := range history {
		bar := strings.Repeat("■", min(day.CompletedPomodoros, 16))
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", day.Date, day.CompletedPomodoros, formatFocus(day.Focus), bar)
	}
	fmt.Fprintf(w, "total\t%d\t%s\t\n", total.CompletedPomodoros, formatFocus(total.Focus))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(recent) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, bold.Sprint("Recent sessions:"))
	for _, record := range recent {
		state := ""
		if record.Skipped {
			state = faint.Sprint(" (skipped)")
		}
		fmt.Fprintf(out, "  %-12s %s%s, %s\n",
			record.Phase,
			formatFocus(record.Duration),
			state,
			humanize.RelTime(record.EndedAt, now, "ago", "from now"))
	}
	return nil
}

func pomodoros(count int) string {
	if count == 1 {
		return "1 pomodoro"
	}
	return fmt.Sprintf("%d pomodoros", count)
}

// formatFocus renders a duration as "1h05m" or "25m".
func formatFocus(focus time.Duration) string {
	minutes := int(focus / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
