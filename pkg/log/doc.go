// Package log provides structured event capture for key state observers.
//
// This package defines the Logger interface and Event types that record
// what an observer did: subscription toggles, change signals received from
// the key session, and the outcome of each delivery to the delegate. It is
// separate from operational logging (slog); event capture provides a
// complete machine-readable trace for debugging delivery problems.
//
// # Basic Usage
//
// Applications enable capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/keywatch/observer.kwlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Subscription: the observer registered with or left the session
//   - Signal: a change signal arrived (own or foreign token)
//   - Delivery: a scheduled notification ran or was dropped
//   - Error: a registration call failed
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys, using
// the .kwlog extension. The keywatch-log CLI tool provides viewing,
// statistics and export.
package log
