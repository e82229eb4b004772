package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/FranksOps/uagen/internal/generator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uagen_generated_total",
			Help: "Total number of unique user-agents generated",
		},
		[]string{"market", "android", "chrome"},
	)

	CollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uagen_collisions_total",
			Help: "Total number of draws discarded because the user-agent was already known",
		},
	)

	AttemptsPerBatch = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "uagen_batch_attempts",
			Help:    "Number of draws needed per generated batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	ExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uagen_exhausted_total",
			Help: "Total number of batches that ran out of attempts",
		},
	)

	StoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uagen_store_size",
			Help: "Number of user-agents in the store after the last save",
		},
	)
)

// RecordBatch updates the metrics for a generated batch.
func RecordBatch(b *generator.Batch, exhausted bool) {
	if b == nil {
		return
	}

	for _, s := range b.Samples {
		GeneratedTotal.WithLabelValues(string(s.Market), strconv.Itoa(s.Android), strconv.Itoa(s.Chrome)).Inc()
	}
	CollisionsTotal.Add(float64(b.Collisions))
	AttemptsPerBatch.Observe(float64(b.Attempts))
	if exhausted {
		ExhaustedTotal.Inc()
	}
}

// RecordStoreSize sets the store size gauge.
func RecordStoreSize(n int) {
	StoreSize.Set(float64(n))
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// NewServer prepares a server exposing /metrics on addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Listen binds the server's address so bind failures surface before any
// work starts.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen on %s: %w", s.srv.Addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until Stop is called. Shutdown is not
// reported as an error.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
