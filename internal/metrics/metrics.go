package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aizazja028-sketch/BookByte/internal/models"
)

// Collector exposes Prometheus metrics for inbound HTTP requests and for
// book ingestion progress.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	itemsTotal          *prometheus.CounterVec
	chunksTotal         *prometheus.CounterVec
	booksPersisted      prometheus.Counter
	paragraphsPersisted prometheus.Counter
}

// NewCollector constructs a collector with default histograms/counters.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookbyte",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookbyte",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	itemsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookbyte",
		Subsystem: "ingest",
		Name:      "items_total",
		Help:      "Ingestion items by terminal status.",
	}, []string{"status"})

	chunksTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookbyte",
		Subsystem: "ingest",
		Name:      "chunks_total",
		Help:      "Chunk-processing calls by result.",
	}, []string{"result"})

	booksPersisted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookbyte",
		Subsystem: "ingest",
		Name:      "books_persisted_total",
		Help:      "Book records successfully persisted.",
	})

	paragraphsPersisted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookbyte",
		Subsystem: "ingest",
		Name:      "paragraphs_persisted_total",
		Help:      "Paragraphs successfully persisted.",
	})

	collectors := []prometheus.Collector{
		requestDuration, requestTotal, itemsTotal, chunksTotal, booksPersisted, paragraphsPersisted,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:            registry,
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		itemsTotal:          itemsTotal,
		chunksTotal:         chunksTotal,
		booksPersisted:      booksPersisted,
		paragraphsPersisted: paragraphsPersisted,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// ItemFinished counts one ingestion item reaching a terminal status.
func (c *Collector) ItemFinished(status models.ItemStatus) {
	c.itemsTotal.WithLabelValues(string(status)).Inc()
}

// ChunkProcessed counts one chunk-processing call.
func (c *Collector) ChunkProcessed(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	c.chunksTotal.WithLabelValues(result).Inc()
}

// BookPersisted counts one persisted book record.
func (c *Collector) BookPersisted() {
	c.booksPersisted.Inc()
}

// ParagraphsPersisted counts a batch of persisted paragraphs.
func (c *Collector) ParagraphsPersisted(count int) {
	c.paragraphsPersisted.Add(float64(count))
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
