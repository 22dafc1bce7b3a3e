package gutenberg

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/aizazja028-sketch/BookByte/internal/ingest"
)

func testClient(minContentLength int) *Client {
	cfg := DefaultClientConfig()
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	cfg.MinContentLength = minContentLength
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchText(t *testing.T) {
	body := strings.Repeat("It was a dark and stormy night. ", 10)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("expected a User-Agent header")
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	got, err := testClient(100).FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != body {
		t.Errorf("unexpected body: %q", got)
	}
}

func TestFetchTextServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(100).FetchText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if kind := ingest.KindOf(err); kind != ingest.KindFetchFailed {
		t.Errorf("expected fetch_failed kind, got %s", kind)
	}
	if !ingest.IsTransient(err) {
		t.Error("server-side failures must be marked transient")
	}
}

func TestFetchTextNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient(100).FetchText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if ingest.IsTransient(err) {
		t.Error("a 404 must not be retried")
	}
}

func TestFetchTextShortBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("404: too short to be a book"))
	}))
	defer srv.Close()

	_, err := testClient(100).FetchText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for a body below the minimum length")
	}
	if kind := ingest.KindOf(err); kind != ingest.KindEmptyContent {
		t.Errorf("expected empty_content kind, got %s", kind)
	}
	if ingest.IsTransient(err) {
		t.Error("an empty body must not be retried")
	}
}

func TestFetchTextNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testClient(100).FetchText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for a refused connection")
	}
	if !ingest.IsTransient(err) {
		t.Error("network failures must be marked transient")
	}
}
