package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/contactscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps the result set with run-level metadata.
//
// Design decision: We wrap the results rather than emitting a bare array
// because this allows us to add run-level fields (totals, the bulk mailto
// link) without polluting the per-site data structure.
type JSONReport struct {
	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// SiteCount is the number of crawled sites in the report.
	SiteCount int `json:"site_count"`

	// EmailCount and PhoneCount are totals across all sites.
	EmailCount int `json:"email_count"`
	PhoneCount int `json:"phone_count"`

	// BulkMailto is a single mailto: link addressing every unique email,
	// empty when no emails were collected.
	BulkMailto string `json:"bulk_mailto,omitempty"`

	// Results are the per-site crawl results in seed order.
	Results []*model.SiteResult `json:"results"`
}

// Write outputs the results as a JSON document.
func (w *JSONWriter) Write(results []*model.SiteResult) (int, error) {
	emails, phones := totalContacts(results)
	doc := &JSONReport{
		GeneratedAt: time.Now(),
		SiteCount:   len(results),
		EmailCount:  emails,
		PhoneCount:  phones,
		BulkMailto:  model.BulkMailto(results),
		Results:     results,
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
