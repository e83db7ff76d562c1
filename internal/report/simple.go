package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/contactscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sites with no contacts are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show sites without contacts.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  true,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the results in human-readable format.
func (w *SimpleWriter) Write(results []*model.SiteResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, results)
	for _, r := range results {
		w.writeSite(&sb, r)
	}
	w.writeFooter(&sb, results)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, results []*model.SiteResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        CONTACTSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	emails, phones := totalContacts(results)
	sb.WriteString(fmt.Sprintf("Sites Crawled:  %d\n", len(results)))
	sb.WriteString(fmt.Sprintf("Emails Found:   %d\n", emails))
	sb.WriteString(fmt.Sprintf("Phones Found:   %d\n", phones))
	sb.WriteString("\n")
}

// writeSite writes one site's section.
func (w *SimpleWriter) writeSite(sb *strings.Builder, r *model.SiteResult) {
	if len(r.Emails) == 0 && len(r.Phones) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(r.URL)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Pages Visited:  %d\n", r.PagesVisited))
	sb.WriteString(fmt.Sprintf("Stop Reason:    %s\n", r.StopReason))
	if r.UsedDynamicFallback {
		sb.WriteString("Rendering:      dynamic fallback used\n")
	}
	if w.verbose {
		sb.WriteString(fmt.Sprintf("Elapsed:        %s\n", r.Elapsed.Round(time.Millisecond)))
	}
	sb.WriteString("\n")

	if len(r.Emails) == 0 {
		sb.WriteString("  No emails found\n")
	} else {
		for _, email := range r.Emails {
			sb.WriteString(fmt.Sprintf("  [@] %s\n", email))
		}
	}
	if len(r.Phones) == 0 {
		sb.WriteString("  No phones found\n")
	} else {
		for _, phone := range r.Phones {
			if w.verbose {
				sb.WriteString(fmt.Sprintf("  [#] %s (%s)\n", phone, model.WhatsAppLink(phone)))
			} else {
				sb.WriteString(fmt.Sprintf("  [#] %s\n", phone))
			}
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer with the bulk mailto link.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, results []*model.SiteResult) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if mailto := model.BulkMailto(results); mailto != "" {
		sb.WriteString("Write to all:\n")
		sb.WriteString(mailto)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", 70))
		sb.WriteString("\n")
	}
}
