package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

func TestInstrumentHandler(t *testing.T) {
	collector, err := NewCollector()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handler := collector.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("middleware must preserve the status, got %d", rec.Code)
	}

	body := scrape(t, collector)
	if !strings.Contains(body, `bookbyte_http_requests_total{method="GET",path="/api/books",status="418"} 1`) {
		t.Error("request counter was not recorded")
	}
}

func TestIngestionCounters(t *testing.T) {
	collector, err := NewCollector()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	collector.ItemFinished(models.ItemStatusSuccess)
	collector.ItemFinished(models.ItemStatusError)
	collector.ChunkProcessed(true)
	collector.ChunkProcessed(false)
	collector.BookPersisted()
	collector.ParagraphsPersisted(7)

	body := scrape(t, collector)
	for _, want := range []string{
		`bookbyte_ingest_items_total{status="success"} 1`,
		`bookbyte_ingest_items_total{status="error"} 1`,
		`bookbyte_ingest_chunks_total{result="ok"} 1`,
		`bookbyte_ingest_chunks_total{result="error"} 1`,
		`bookbyte_ingest_books_persisted_total 1`,
		`bookbyte_ingest_paragraphs_persisted_total 7`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output is missing %q", want)
		}
	}
}

func scrape(t *testing.T, collector *Collector) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, req)
	return rec.Body.String()
}
