package logging

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Entry is one parsed line of a log file.
type Entry struct {
	Timestamp time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	RunID     string         `json:"run_id,omitempty"`
	Relation  string         `json:"relation,omitempty"`
	Phase     string         `json:"phase,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Filter selects entries. Zero-valued fields match everything; set fields
// are combined with AND.
type Filter struct {
	Level    string // minimum level
	RunID    string
	Phase    string
	Contains string // substring of the message
	Since    time.Time
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var standardFields = map[string]bool{
	"time":     true,
	"level":    true,
	"msg":      true,
	"run_id":   true,
	"relation": true,
	"phase":    true,
}

// ReadEntries parses {dir}/bcnf.log. Lines that are not JSON objects are
// skipped. Entries come back in timestamp order.
func ReadEntries(dir string) ([]Entry, error) {
	path := filepath.Join(dir, FileName)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ParseEntries(file)
}

// ParseEntries reads JSON log lines from r.
func ParseEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return entries, nil
}

func parseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := Entry{Attrs: make(map[string]any)}
	if s, ok := raw["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			entry.Timestamp = t
		}
	}
	entry.Level, _ = raw["level"].(string)
	entry.Message, _ = raw["msg"].(string)
	entry.RunID, _ = raw["run_id"].(string)
	entry.Relation, _ = raw["relation"].(string)
	entry.Phase, _ = raw["phase"].(string)

	for k, v := range raw {
		if !standardFields[k] {
			entry.Attrs[k] = v
		}
	}
	return entry, nil
}

// Apply returns the entries that match f.
func (f Filter) Apply(entries []Entry) []Entry {
	if f == (Filter{}) {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) matches(e Entry) bool {
	if f.Level != "" {
		floor, okFloor := levelOrder[strings.ToUpper(f.Level)]
		got, okGot := levelOrder[e.Level]
		if okFloor && okGot && got < floor {
			return false
		}
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if f.RunID != "" && e.RunID != f.RunID {
		return false
	}
	if f.Phase != "" && e.Phase != f.Phase {
		return false
	}
	if f.Contains != "" && !strings.Contains(e.Message, f.Contains) {
		return false
	}
	return true
}

// Runs returns the distinct run IDs in entries, in order of first appearance.
func Runs(entries []Entry) []string {
	var runs []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.RunID != "" && !seen[e.RunID] {
			seen[e.RunID] = true
			runs = append(runs, e.RunID)
		}
	}
	return runs
}

// ExportFormats lists the formats accepted by Export.
func ExportFormats() []string {
	return []string{"text", "json", "csv"}
}

// Export writes entries to w as "text", "json" or "csv".
func Export(w io.Writer, entries []Entry, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "text", "":
		return exportText(w, entries)
	case "csv":
		return exportCSV(w, entries)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: %s)", format, strings.Join(ExportFormats(), ", "))
	}
}

// exportText writes "[TIME] LEVEL - MESSAGE (context) {attrs}" lines.
func exportText(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		parts := []string{
			fmt.Sprintf("[%s]", e.Timestamp.Format("2006-01-02 15:04:05.000")),
			e.Level, "-", e.Message,
		}

		var ctx []string
		if e.RunID != "" {
			ctx = append(ctx, "run="+e.RunID)
		}
		if e.Phase != "" {
			ctx = append(ctx, "phase="+e.Phase)
		}
		if e.Relation != "" {
			ctx = append(ctx, "relation="+e.Relation)
		}
		if len(ctx) > 0 {
			parts = append(parts, "("+strings.Join(ctx, ", ")+")")
		}
		if len(e.Attrs) > 0 {
			attrs, _ := json.Marshal(e.Attrs)
			parts = append(parts, string(attrs))
		}

		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return fmt.Errorf("failed to write text entry: %w", err)
		}
	}
	return nil
}

func exportCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "level", "message", "run_id", "phase", "relation", "attrs"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range entries {
		attrs := ""
		if len(e.Attrs) > 0 {
			if b, err := json.Marshal(e.Attrs); err == nil {
				attrs = string(b)
			}
		}
		record := []string{
			e.Timestamp.Format(time.RFC3339Nano),
			e.Level,
			e.Message,
			e.RunID,
			e.Phase,
			e.Relation,
			attrs,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
