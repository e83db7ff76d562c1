package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/contactscan/internal/model"
)

// EventHandler is an slog.Handler that formats each record into a single
// human-readable line and forwards it to the crawl engine's event sink as
// a LogLine event. The engine logs through a normal *slog.Logger and never
// learns who consumes the lines.
//
// Design decision: We deliver logs through the event channel rather than
// writing to a shared io.Writer because:
//  1. The consumer decides rendering (terminal, GUI, test buffer)
//  2. Log lines interleave correctly with SiteCompleted events
//  3. The engine keeps exactly one output: the event stream
type EventHandler struct {
	// sink receives one LogLine event per record.
	sink func(model.Event)

	// level is the minimum level this handler forwards.
	level slog.Level

	// attrs holds attributes bound with WithAttrs, already formatted.
	attrs []string

	// group is the dotted prefix for attribute keys from WithGroup.
	group string
}

// NewEventHandler creates a handler forwarding records at or above the
// given level to sink.
func NewEventHandler(sink func(model.Event), level slog.Level) *EventHandler {
	return &EventHandler{
		sink:  sink,
		level: level,
	}
}

// Enabled reports whether the handler forwards records at the given level.
func (h *EventHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats the record as "message key=value ..." and emits it.
func (h *EventHandler) Handle(_ context.Context, r slog.Record) error {
	parts := make([]string, 0, 1+len(h.attrs)+r.NumAttrs())
	parts = append(parts, r.Message)
	parts = append(parts, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, h.formatAttr(a))
		return true
	})

	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}

	h.sink(model.Event{
		Kind:    model.EventLogLine,
		Time:    when,
		Message: strings.Join(parts, " "),
	})
	return nil
}

// WithAttrs returns a handler that includes the given attributes in every
// forwarded line.
func (h *EventHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	formatted := make([]string, 0, len(h.attrs)+len(attrs))
	formatted = append(formatted, h.attrs...)
	for _, a := range attrs {
		formatted = append(formatted, h.formatAttr(a))
	}
	return &EventHandler{
		sink:  h.sink,
		level: h.level,
		attrs: formatted,
		group: h.group,
	}
}

// WithGroup returns a handler that prefixes subsequent attribute keys
// with the group name.
func (h *EventHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &EventHandler{
		sink:  h.sink,
		level: h.level,
		attrs: h.attrs,
		group: group,
	}
}

// formatAttr renders one attribute as key=value with the group prefix.
func (h *EventHandler) formatAttr(a slog.Attr) string {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return fmt.Sprintf("%s=%v", key, a.Value.Any())
}

// NewEventLogger creates a *slog.Logger whose records arrive at sink as
// LogLine events. Verbose forwards debug and above; otherwise info and
// above (the crawl narrates its progress at info level).
func NewEventLogger(sink func(model.Event), verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewEventHandler(sink, level))
}

// NewTextLogger creates a plain text *slog.Logger for CLI-side
// diagnostics that happen outside the engine's event stream.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewTextLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
