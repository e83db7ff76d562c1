package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/contactscan/internal/model"
)

// testResults builds a two-site fixture for writer tests.
func testResults() []*model.SiteResult {
	now := time.Now()
	return []*model.SiteResult{
		{
			Seed:         "example.it",
			URL:          "https://example.it",
			Emails:       []string{"info@example.it", "sales@example.it"},
			Phones:       []string{"+393311234567"},
			PagesVisited: 5,
			StopReason:   model.StopQueueEmpty,
			StartedAt:    now.Add(-time.Minute),
			CompletedAt:  now,
			Elapsed:      time.Minute,
		},
		{
			Seed:                "empty.example.it",
			URL:                 "https://empty.example.it",
			Emails:              []string{},
			Phones:              []string{},
			PagesVisited:        1,
			StopReason:          model.StopDepthExhausted,
			UsedDynamicFallback: true,
			StartedAt:           now.Add(-time.Minute),
			CompletedAt:         now,
			Elapsed:             time.Minute,
		},
	}
}

// TestSimpleWriter tests the human-readable text output.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders sites and contacts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(testResults())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"CONTACTSCAN REPORT",
			"https://example.it",
			"info@example.it",
			"+393311234567",
			"queue_empty",
			"dynamic fallback used",
			"mailto:info@example.it,sales@example.it",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("hides empty sites when configured", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(false))

		if _, err := w.Write(testResults()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "empty.example.it") {
			t.Error("expected empty site to be hidden")
		}
	})

	t.Run("verbose adds whatsapp links", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(testResults()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "https://wa.me/393311234567") {
			t.Error("expected WhatsApp link in verbose output")
		}
	})
}

// TestJSONWriter tests the machine-readable JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(testResults()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc JSONReport
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if doc.SiteCount != 2 {
			t.Errorf("expected SiteCount 2, got %d", doc.SiteCount)
		}
		if doc.EmailCount != 2 {
			t.Errorf("expected EmailCount 2, got %d", doc.EmailCount)
		}
		if doc.PhoneCount != 1 {
			t.Errorf("expected PhoneCount 1, got %d", doc.PhoneCount)
		}
		if doc.BulkMailto != "mailto:info@example.it,sales@example.it" {
			t.Errorf("unexpected bulk mailto: %q", doc.BulkMailto)
		}
		if len(doc.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(doc.Results))
		}
		if doc.Results[1].StopReason != model.StopDepthExhausted {
			t.Errorf("stop reason did not survive the round trip: %s", doc.Results[1].StopReason)
		}
	})

	t.Run("pretty print is indented", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(testResults()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})
}

// TestMarkdownWriter tests the Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(testResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"# Contactscan Report",
		"## Overview",
		"## https://example.it",
		"[info@example.it](mailto:info@example.it)",
		"https://wa.me/393311234567",
		"## Write To All",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestXLSXWriter tests the spreadsheet export round trip.
func TestXLSXWriter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.xlsx")
	w := NewXLSXWriter(path)

	if _, err := w.Write(testResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open exported file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheetName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	header := rows[0]
	if len(header) != len(xlsxHeader) {
		t.Fatalf("expected %d header cells, got %d", len(xlsxHeader), len(header))
	}
	for i, want := range xlsxHeader {
		if header[i] != want {
			t.Errorf("header[%d] = %q, expected %q", i, header[i], want)
		}
	}

	first := rows[1]
	if first[0] != "https://example.it" {
		t.Errorf("expected website cell, got %q", first[0])
	}
	if first[1] != "info@example.it, sales@example.it" {
		t.Errorf("unexpected emails cell: %q", first[1])
	}
	if first[2] != "2" {
		t.Errorf("expected email count 2, got %q", first[2])
	}
	if first[4] != "https://wa.me/393311234567" {
		t.Errorf("unexpected WhatsApp cell: %q", first[4])
	}
	if first[5] != "1" {
		t.Errorf("expected mobile count 1, got %q", first[5])
	}
}

// failingWriter always fails, for MultiWriter error propagation.
type failingWriter struct{}

func (failingWriter) Write(_ []*model.SiteResult) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		if _, err := mw.Write(testResults()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))

		if _, err := mw.Write(testResults()); err == nil {
			t.Error("expected error from failing writer")
		}
		if buf.Len() != 0 {
			t.Error("expected no output after the failing writer")
		}
	})
}
