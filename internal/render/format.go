package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/bcnf/internal/errors"
)

// Format selects an output encoding.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatSQL  Format = "sql"
)

// Formats returns the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatSQL)}
}

// ParseFormat resolves a format name case-insensitively. The empty string
// selects text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	lower := strings.ToLower(name)
	if !slices.Contains(Formats(), lower) {
		return "", fmt.Errorf("%w: %q (valid: %s)", errors.ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	return Format(lower), nil
}
