// Package log provides logging utilities for contactscan, built on top of
// the standard slog package.
//
// The crawl engine logs through a normal *slog.Logger backed by
// EventHandler, which formats each record into a single human-readable
// line and forwards it to the engine's event stream as a LogLine event.
// The consumer of the stream decides how lines are rendered; the engine
// itself never writes to a terminal or file.
//
// # Usage
//
//	// Engine-side logger feeding the event stream
//	logger := log.NewEventLogger(sink, verbose)
//	logger.Info("visiting", "url", "https://example.it/")
//
//	// CLI-side diagnostics outside the event stream
//	diag := log.NewTextLogger(os.Stderr, verbose)
package log
