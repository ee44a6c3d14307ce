package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/render"
	"github.com/Iron-Ham/bcnf/internal/schema"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose [file]",
	Short: "Decompose a relation into BCNF",
	Long: `Decompose the relation described by a YAML or JSON document into
Boyce-Codd normal form and print the resulting relations, key first.

Without a file, the built-in travel sample is used. Use "-" to read the
document from stdin.

Examples:
  # Decompose the sample and print SQL
  bcnf decompose --format sql

  # Decompose a document and check the result against its rows
  bcnf decompose schema.yaml --verify

  # Re-run whenever the document changes
  bcnf decompose schema.yaml --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecompose,
}

var (
	decomposeVerify bool
	decomposeWatch  bool
)

func init() {
	rootCmd.AddCommand(decomposeCmd)

	decomposeCmd.Flags().BoolVar(&decomposeVerify, "verify", false, "check the decomposition for lossless joins")
	decomposeCmd.Flags().BoolVarP(&decomposeWatch, "watch", "w", false, "re-run when the document changes")
	decomposeCmd.Flags().Int("rows", 0, "rows to generate when the document has none (with --verify)")
	decomposeCmd.Flags().Int64("seed", 0, "seed for generated rows (with --verify)")
}

func runDecompose(cmd *cobra.Command, args []string) error {
	r, err := newRun(cmd)
	if err != nil {
		return err
	}
	defer r.close()

	if !decomposeWatch {
		return decomposeOnce(cmd.Context(), cmd, r, args)
	}

	if len(args) == 0 || args[0] == "-" {
		return fmt.Errorf("--watch needs a document path: %w", errors.ErrInvalidInput)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchFile(ctx, args[0], watchDebounce, func() {
		if err := decomposeOnce(ctx, cmd, r, args); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), formatError(err))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", args[0])
	})
}

const watchDebounce = 100 * time.Millisecond

func decomposeOnce(ctx context.Context, cmd *cobra.Command, r *run, args []string) error {
	doc, err := loadDocument(cmd, args)
	if err != nil {
		return err
	}
	rel := doc.Relation()
	deps := doc.FDs()
	log := r.logger.WithRelation(rel.String())

	parts, err := r.decomposer().Decompose(ctx, []schema.Relation{rel}, deps)
	if err != nil {
		log.Error("decomposition failed", "error", err)
		return err
	}

	rend, err := r.renderer(cmd)
	if err != nil {
		return err
	}
	if err := rend.Decomposition(render.Decomposition{
		Name:         doc.Name,
		Original:     rel,
		Dependencies: deps,
		Relations:    parts,
	}); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	if !decomposeVerify {
		return nil
	}
	report, err := checkLossless(ctx, r, doc, parts)
	if err != nil {
		return err
	}
	if rend.Format() == render.FormatText {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if err := rend.Report(report); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return report.Err()
}
