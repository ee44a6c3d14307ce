// Package logging provides structured logging for bcnf runs.
//
// It wraps log/slog to write JSON lines, one file per log directory, so a
// decomposition can be inspected after the fact.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (run ID, relation, phase)
//   - Size-based rotation with optional gzip compression
//   - A decomposition trace fed from an event bus
//   - Reading, filtering and exporting past runs
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLog := logger.WithRun("run-1").WithPhase("load")
//	runLog.Info("document loaded", "attributes", 8, "dependencies", 4)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"document loaded","run_id":"run-1","phase":"load","attributes":8,"dependencies":4}
//
// # Tracing a Decomposition
//
// [Logger.Trace] subscribes to an *event.Bus and logs every pass, violation
// and split:
//
//	bus := event.NewBus()
//	logger.Trace(bus)
//	rels, err := normalize.New(normalize.WithObserver(bus)).Decompose(ctx, rels, deps)
//
// # Log Rotation
//
//	logger, err := logging.NewLoggerWithRotation(dir, "DEBUG", logging.RotationConfig{
//	    MaxSizeMB:  10,
//	    MaxBackups: 3,
//	    Compress:   true,
//	})
//
// Rotated files are named bcnf.log.1 (newest) through bcnf.log.N, with a
// .gz suffix when compression is enabled.
//
// # Reading Logs
//
//	entries, err := logging.ReadEntries(dir)
//	warnings := logging.Filter{Level: "WARN"}.Apply(entries)
//	err = logging.Export(os.Stdout, warnings, "csv")
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] over a
// bytes.Buffer to assert on it.
package logging
