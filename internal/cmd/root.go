package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/bcnf/internal/config"
	"github.com/Iron-Ham/bcnf/internal/errors"
	"github.com/Iron-Ham/bcnf/internal/event"
	"github.com/Iron-Ham/bcnf/internal/logging"
	"github.com/Iron-Ham/bcnf/internal/normalize"
	"github.com/Iron-Ham/bcnf/internal/render"
)

var rootCmd = &cobra.Command{
	Use:   "bcnf",
	Short: "Decompose relations into Boyce-Codd normal form",
	Long: `bcnf splits a relation into Boyce-Codd normal form under a list of
functional dependencies, and can check the result for lossless joins
against sample or generated data.

Relations are read from YAML or JSON documents. Run 'bcnf example' for
a starting point.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), formatError(err))
	}
	return err
}

// formatError renders err for the terminal. Errors that are not marked
// user-facing carry internal detail such as SQL text, which only goes to
// the run log. A canceled run is reported as a warning.
func formatError(err error) string {
	prefix := "Error"
	if errors.IsDomainError(err) && errors.GetSeverity(err) <= errors.SeverityWarning {
		prefix = "Warning"
	}
	if (errors.IsDomainError(err) || errors.IsSemanticError(err)) && !errors.IsUserFacing(err) {
		return prefix + ": internal failure (rerun with --log --log-level debug for details)"
	}
	return prefix + ": " + err.Error()
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd)
		initConfig()
		return nil
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/bcnf/config.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "", "output format (text, json, yaml, sql)")
	rootCmd.PersistentFlags().String("color", "", "color mode (auto, always, never)")
	rootCmd.PersistentFlags().Int("max-width", 0, "truncate text output to this many columns")
	rootCmd.PersistentFlags().Bool("strict-key", false, "derive keys from attribute closures")
	rootCmd.PersistentFlags().Int("max-iterations", 0, "maximum number of splits (0 = unbounded)")
	rootCmd.PersistentFlags().Bool("log", false, "log the run")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-dir", "", "directory for bcnf.log (default: stderr)")
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"config":         "config",
	"format":         "output.format",
	"color":          "output.color",
	"max-width":      "output.max_width",
	"strict-key":     "decomposition.strict_key_closure",
	"max-iterations": "decomposition.max_iterations",
	"log":            "logging.enabled",
	"log-level":      "logging.level",
	"log-dir":        "logging.dir",
	"rows":           "verify.rows",
	"seed":           "verify.seed",
}

// bindFlags binds the flags of the command being run to their config keys.
// Several commands define the same local flag, so binding waits until the
// command is known.
func bindFlags(cmd *cobra.Command) {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BCNF")
	// Replace dots with underscores for nested keys in env vars
	// e.g., BCNF_DECOMPOSITION_MAX_ITERATIONS for decomposition.max_iterations
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// run holds what a single command invocation needs: the loaded config, a
// logger tagged with a fresh run ID and the bus that feeds it.
type run struct {
	cfg    *config.Config
	id     string
	logger *logging.Logger
	bus    *event.Bus
	trace  string // subscription ID of the logger on bus
}

func newRun(cmd *cobra.Command) (*run, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	r := &run{cfg: cfg, id: generateID(), bus: event.NewBus()}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLoggerWithRotation(cfg.Logging.ResolveDir(), cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			Compress:   cfg.Logging.Compress,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to open log")
		}
	}
	r.logger = logger.WithRun(r.id).With("command", cmd.Name())
	r.bus.SetLogger(r.logger.Slog())
	r.trace = r.logger.Trace(r.bus)
	return r, nil
}

func (r *run) close() {
	r.bus.Unsubscribe(r.trace)
	_ = r.logger.Close()
}

// decomposer builds a normalizer from config, reporting to the run's bus.
func (r *run) decomposer() *normalize.Decomposer {
	return normalize.New(
		normalize.WithStrictKeyClosure(r.cfg.Decomposition.StrictKeyClosure),
		normalize.WithMaxIterations(r.cfg.Decomposition.MaxIterations),
		normalize.WithValidateInput(r.cfg.Decomposition.ValidateInput),
		normalize.WithObserver(r.bus),
	)
}

// renderer builds a renderer for the command's output stream.
func (r *run) renderer(cmd *cobra.Command) (*render.Renderer, error) {
	format, err := render.ParseFormat(r.cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	width := r.cfg.Output.MaxWidth
	if width == 0 {
		width = render.TerminalWidth(out)
	}

	keyFunc := normalize.PrimaryKey
	if r.cfg.Decomposition.StrictKeyClosure {
		keyFunc = normalize.StrictPrimaryKey
	}

	return render.New(out, render.Options{
		Format:   format,
		Color:    render.UseColor(r.cfg.Output.Color, out),
		MaxWidth: width,
		Key:      keyFunc,
	}), nil
}

// generateID creates a short random hex ID.
// Falls back to a timestamp-based ID if crypto/rand fails.
func generateID() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return hex.EncodeToString(bytes)
}
