package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bcnf/internal/config"
	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View run logs",
	Long: `View and filter the JSON logs written by earlier runs.

Logs are read from logging.dir (or --dir). Logging must be enabled with
logging.enabled or --log for runs to be recorded.

Examples:
  # Show the most recent run
  bcnf logs --last

  # Show every split, across runs
  bcnf logs --contains split

  # Export warnings from the last hour as CSV
  bcnf logs --level warn --since 1h -o csv`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsDir      string
	logsRun      string
	logsLast     bool
	logsLevel    string
	logsPhase    string
	logsContains string
	logsSince    string
	logsTail     int
	logsOutput   string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsDir, "dir", "", "log directory (default: logging.dir)")
	logsCmd.Flags().StringVar(&logsRun, "run", "", "only show this run ID")
	logsCmd.Flags().BoolVar(&logsLast, "last", false, "only show the most recent run")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsPhase, "phase", "", "only show entries from this phase (decompose, verify)")
	logsCmd.Flags().StringVar(&logsContains, "contains", "", "only show messages containing this text")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 0, "number of entries to show (0 for all)")
	logsCmd.Flags().StringVarP(&logsOutput, "output", "o", "text", "output format (text, json, csv)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	dir := logsDir
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "invalid configuration")
		}
		dir = cfg.Logging.ResolveDir()
	}
	if dir == "" {
		return fmt.Errorf("no log directory: set logging.dir or pass --dir")
	}

	entries, err := logging.ReadEntries(dir)
	if err != nil {
		return err
	}

	filter := logging.Filter{
		Level:    logsLevel,
		RunID:    logsRun,
		Phase:    logsPhase,
		Contains: logsContains,
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return errors.Wrap(err, "invalid duration format")
		}
		filter.Since = time.Now().Add(-d)
	}
	if logsLast {
		runs := logging.Runs(entries)
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs found.")
			return nil
		}
		filter.RunID = runs[len(runs)-1]
	}

	entries = filter.Apply(entries)
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}
	return logging.Export(cmd.OutOrStdout(), entries, logsOutput)
}
