package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestClientFetch tests the static fetcher against a local HTTP server.
func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("successful fetch returns raw body", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body>Contact: a@b.com</body></html>"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		c := NewClient()
		body, err := c.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(body, "a@b.com") {
			t.Errorf("body does not contain expected content: %q", body)
		}
	})

	t.Run("browser-like headers are sent", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotAccept, gotCookie, gotCustom string
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			gotCookie = r.Header.Get("Cookie")
			gotCustom = r.Header.Get("X-Custom")
			_, _ = w.Write([]byte("ok"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		c := NewClient(
			WithUserAgent("test-agent/1.0"),
			WithCookie("consent=yes"),
			WithHeaders(map[string]string{"X-Custom": "value"}),
		)
		if _, err := c.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotUA != "test-agent/1.0" {
			t.Errorf("expected custom User-Agent, got %q", gotUA)
		}
		if !strings.Contains(gotAccept, "text/html") {
			t.Errorf("expected browser Accept header, got %q", gotAccept)
		}
		if gotCookie != "consent=yes" {
			t.Errorf("expected cookie header, got %q", gotCookie)
		}
		if gotCustom != "value" {
			t.Errorf("expected custom header, got %q", gotCustom)
		}
	})

	t.Run("non-2xx status yields FetchError with status code", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		c := NewClient()
		_, err := c.Fetch(context.Background(), server.URL)
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %T", err)
		}
		if fetchErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", fetchErr.StatusCode)
		}
		if fetchErr.Mode != "static" {
			t.Errorf("expected mode 'static', got %q", fetchErr.Mode)
		}
	})

	t.Run("body is capped at max size", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		c := NewClient(WithMaxBodySize(100))
		body, err := c.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body) != 100 {
			t.Errorf("expected 100 bytes, got %d", len(body))
		}
	})

	t.Run("connection failure yields FetchError without status", func(t *testing.T) {
		t.Parallel()

		c := NewClient(WithTimeout(500 * time.Millisecond))
		_, err := c.Fetch(context.Background(), "http://127.0.0.1:1/")
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %T", err)
		}
		if fetchErr.StatusCode != 0 {
			t.Errorf("expected zero status code, got %d", fetchErr.StatusCode)
		}
		if fetchErr.Unwrap() == nil {
			t.Error("expected wrapped transport error")
		}
	})

	t.Run("cancelled context aborts the fetch", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(2 * time.Second)
			_, _ = w.Write([]byte("late"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient()
		if _, err := c.Fetch(ctx, server.URL); err == nil {
			t.Fatal("expected error from cancelled context")
		}
	})
}

// TestFetchErrorError tests the error message formats.
func TestFetchErrorError(t *testing.T) {
	t.Parallel()

	t.Run("status error", func(t *testing.T) {
		t.Parallel()

		e := &FetchError{URL: "http://example.it/", StatusCode: 503, Mode: "static"}
		expected := "static fetch of http://example.it/ failed: status 503"
		if e.Error() != expected {
			t.Errorf("got %q, expected %q", e.Error(), expected)
		}
	})

	t.Run("wrapped error", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		e := &FetchError{URL: "http://example.it/", Mode: "dynamic", Err: cause}
		if !strings.Contains(e.Error(), "connection refused") {
			t.Errorf("expected message to contain cause, got %q", e.Error())
		}
		if !errors.Is(e, cause) {
			t.Error("expected errors.Is to find the wrapped cause")
		}
	})
}

// TestBrowserCloseWithoutLaunch verifies Close is safe when no browser
// was ever started.
func TestBrowserCloseWithoutLaunch(t *testing.T) {
	t.Parallel()

	b := NewBrowser()
	if err := b.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	// Second close must also be a no-op.
	if err := b.Close(); err != nil {
		t.Errorf("unexpected error on second close: %v", err)
	}
}

// TestBrowserName verifies the fetcher names used in logs.
func TestBrowserName(t *testing.T) {
	t.Parallel()

	if NewBrowser().Name() != "dynamic" {
		t.Error("expected browser fetcher name 'dynamic'")
	}
	if NewClient().Name() != "static" {
		t.Error("expected client fetcher name 'static'")
	}
}
