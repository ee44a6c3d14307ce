package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/bcnf/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "decomposition.max_iterations")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidOutputFormats returns the list of valid output formats
func ValidOutputFormats() []string {
	return []string{"text", "json", "yaml", "sql"}
}

// ValidColorModes returns the list of valid output.color values
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// Upper bounds that keep a misconfigured run from exhausting memory.
const (
	maxIterationsLimit = 1_000_000
	maxVerifyRows      = 100_000
	maxLogSizeMB       = 1024
	maxLogBackups      = 100
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateDecomposition()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateVerify()...)

	return errors
}

func (c *Config) validateDecomposition() []ValidationError {
	var errors []ValidationError

	if c.Decomposition.MaxIterations < 0 {
		errors = append(errors, ValidationError{
			Field:   "decomposition.max_iterations",
			Value:   c.Decomposition.MaxIterations,
			Message: "must be non-negative (0 means unbounded)",
		})
	}
	if c.Decomposition.MaxIterations > maxIterationsLimit {
		errors = append(errors, ValidationError{
			Field:   "decomposition.max_iterations",
			Value:   c.Decomposition.MaxIterations,
			Message: fmt.Sprintf("exceeds maximum of %d", maxIterationsLimit),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(logging.ValidLevels(), strings.ToUpper(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.ToLower(strings.Join(logging.ValidLevels(), ", "))),
		})
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("must be between 0 and %d", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 || c.Logging.MaxBackups > maxLogBackups {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: fmt.Sprintf("must be between 0 and %d", maxLogBackups),
		})
	}

	if strings.ContainsRune(c.Logging.Dir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.dir",
			Value:   c.Logging.Dir,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if c.Output.Format != "" && !slices.Contains(ValidOutputFormats(), c.Output.Format) {
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidOutputFormats(), ", ")),
		})
	}

	if c.Output.Color != "" && !slices.Contains(ValidColorModes(), c.Output.Color) {
		errors = append(errors, ValidationError{
			Field:   "output.color",
			Value:   c.Output.Color,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColorModes(), ", ")),
		})
	}

	// Widths below this cannot hold "R1: (" plus an ellipsis.
	const minWidth = 10
	if c.Output.MaxWidth != 0 && c.Output.MaxWidth < minWidth {
		errors = append(errors, ValidationError{
			Field:   "output.max_width",
			Value:   c.Output.MaxWidth,
			Message: fmt.Sprintf("must be 0 or at least %d", minWidth),
		})
	}

	return errors
}

func (c *Config) validateVerify() []ValidationError {
	var errors []ValidationError

	if c.Verify.Rows < 1 || c.Verify.Rows > maxVerifyRows {
		errors = append(errors, ValidationError{
			Field:   "verify.rows",
			Value:   c.Verify.Rows,
			Message: fmt.Sprintf("must be between 1 and %d", maxVerifyRows),
		})
	}

	return errors
}
