package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/bcnf/internal/logging"
)

// Config represents the complete bcnf configuration
type Config struct {
	Decomposition DecompositionConfig `mapstructure:"decomposition" yaml:"decomposition"`
	Logging       LoggingConfig       `mapstructure:"logging" yaml:"logging"`
	Output        OutputConfig        `mapstructure:"output" yaml:"output"`
	Verify        VerifyConfig        `mapstructure:"verify" yaml:"verify"`
}

// DecompositionConfig controls the normalization algorithm
type DecompositionConfig struct {
	// StrictKeyClosure derives keys from attribute closures instead of the
	// single subtraction pass, and treats any superkey determinant as valid
	// (default: false)
	StrictKeyClosure bool `mapstructure:"strict_key_closure" yaml:"strict_key_closure"`
	// MaxIterations caps the number of splits, 0 = unbounded (default: 1000)
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`
	// ValidateInput rejects empty relations and dependency sides (default: true)
	ValidateInput bool `mapstructure:"validate_input" yaml:"validate_input"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether runs are logged at all (default: false)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the directory holding bcnf.log. Empty means stderr.
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// OutputConfig controls how decompositions are printed
type OutputConfig struct {
	// Format is one of "text", "json", "yaml", "sql" (default: "text")
	Format string `mapstructure:"format" yaml:"format"`
	// Color is "auto", "always" or "never" (default: "auto")
	Color string `mapstructure:"color" yaml:"color"`
	// MaxWidth truncates text lines to this many columns. 0 uses the
	// terminal width when attached to one, and no limit otherwise.
	MaxWidth int `mapstructure:"max_width" yaml:"max_width"`
}

// VerifyConfig controls the lossless-join check
type VerifyConfig struct {
	// Rows is the number of synthetic rows generated when a document has
	// no sample instance (default: 64)
	Rows int `mapstructure:"rows" yaml:"rows"`
	// Seed makes generated rows reproducible (default: 1)
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// ResolveDir returns the log directory with ~ expanded. An empty Dir
// stays empty.
func (l *LoggingConfig) ResolveDir() string {
	path := l.Dir
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	rotation := logging.DefaultRotationConfig()
	return &Config{
		Decomposition: DecompositionConfig{
			StrictKeyClosure: false,
			MaxIterations:    1000,
			ValidateInput:    true,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			Compress:   rotation.Compress,
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    "auto",
			MaxWidth: 0,
		},
		Verify: VerifyConfig{
			Rows: 64,
			Seed: 1,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Decomposition defaults
	viper.SetDefault("decomposition.strict_key_closure", defaults.Decomposition.StrictKeyClosure)
	viper.SetDefault("decomposition.max_iterations", defaults.Decomposition.MaxIterations)
	viper.SetDefault("decomposition.validate_input", defaults.Decomposition.ValidateInput)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Output defaults
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)
	viper.SetDefault("output.max_width", defaults.Output.MaxWidth)

	// Verify defaults
	viper.SetDefault("verify.rows", defaults.Verify.Rows)
	viper.SetDefault("verify.seed", defaults.Verify.Seed)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bcnf")
	}
	// Fall back to ~/.config/bcnf
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bcnf"
	}
	return filepath.Join(home, ".config", "bcnf")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
