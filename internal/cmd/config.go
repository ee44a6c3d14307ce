package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/bcnf/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify bcnf configuration",
	Long: `View or modify bcnf configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  bcnf config set decomposition.strict_key_closure true
  bcnf config set output.format sql
  bcnf config set verify.rows 200

Valid keys:
  decomposition.strict_key_closure - Closure-based keys (true/false)
  decomposition.max_iterations     - Split limit, 0 = unbounded
  decomposition.validate_input     - Reject empty relations and sides (true/false)
  logging.enabled                  - Log runs (true/false)
  logging.level                    - debug, info, warn, error
  logging.dir                      - Directory for bcnf.log
  logging.max_size_mb              - Rotate the log at this size
  logging.max_backups              - Rotated logs to keep
  logging.compress                 - Gzip rotated logs (true/false)
  output.format                    - text, json, yaml, sql
  output.color                     - auto, always, never
  output.max_width                 - Truncate text output, 0 = terminal width
  verify.rows                      - Generated rows for verification
  verify.seed                      - Seed for generated rows`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/bcnf/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// configKeyTypes lists the settable keys and the kind of value each takes.
var configKeyTypes = map[string]string{
	"decomposition.strict_key_closure": "bool",
	"decomposition.max_iterations":     "int",
	"decomposition.validate_input":     "bool",
	"logging.enabled":                  "bool",
	"logging.level":                    "string",
	"logging.dir":                      "string",
	"logging.max_size_mb":              "int",
	"logging.max_backups":              "int",
	"logging.compress":                 "bool",
	"output.format":                    "string",
	"output.color":                     "string",
	"output.max_width":                 "int",
	"verify.rows":                      "int",
	"verify.seed":                      "int",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	keyType, ok := configKeyTypes[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'bcnf config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = intVal
	}

	// Check the whole config with the new value before writing anything
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)

	return nil
}

const defaultConfigContent = `# bcnf configuration

# Normalization algorithm
decomposition:
  # Derive keys from attribute closures and accept superkey determinants.
  # The default single-pass key can loop on trivial dependencies.
  strict_key_closure: false
  # Stop with an error after this many splits (0 = unbounded)
  max_iterations: 1000
  # Reject empty relations and dependencies with an empty side
  validate_input: true

# Run logging (JSON lines)
logging:
  enabled: false
  # Options: debug, info, warn, error
  level: info
  # Directory for bcnf.log; empty logs to stderr
  dir: ""
  max_size_mb: 10
  max_backups: 3
  compress: false

# Output
output:
  # Options: text, json, yaml, sql
  format: text
  # Options: auto, always, never
  color: auto
  # Truncate text lines (0 = terminal width)
  max_width: 0

# Lossless-join verification
verify:
  # Rows generated when a document has no sample instance
  rows: 64
  seed: 1
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'bcnf config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintf(out, "\nEnvironment variables: BCNF_* (e.g., %s)\n",
		"BCNF_"+strings.ToUpper(strings.ReplaceAll("decomposition.max_iterations", ".", "_")))

	return nil
}
