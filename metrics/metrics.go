// Package metrics exposes prometheus counters for the key export
// service and a standalone metrics HTTP server.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// KeysGenerated counts RSA keys created through the API.
	KeysGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsahelper_keys_generated_total",
		Help: "Total number of RSA keys generated",
	})

	// KeysImported counts public keys imported through the API.
	KeysImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsahelper_keys_imported_total",
		Help: "Total number of public keys imported",
	})

	// ExportsTotal counts export operations by format and status.
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsahelper_exports_total",
		Help: "Key export operations by format and status",
	}, []string{"format", "status"})

	// ArtifactsArchived counts exported artifacts written to storage backends.
	ArtifactsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsahelper_artifacts_archived_total",
		Help: "Total number of exported artifacts archived to storage",
	})

	// ExportDuration observes the end-to-end duration of export requests.
	ExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rsahelper_export_duration_seconds",
		Help:    "Duration of key export requests",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)

// MetricsServer serves the prometheus scrape endpoint on its own listener.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr.
func New(namespace, addr string) (*MetricsServer, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty metrics listen address")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving the scrape endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
