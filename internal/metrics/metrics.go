// Package metrics exposes Prometheus collectors for SSH serving mode.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Session results recorded by SessionsTotal.
const (
	ResultOK       = "ok"
	ResultNoPTY    = "no_pty"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Registry holds all ls-starmap metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	SessionsActive  prometheus.Gauge
	SessionsTotal   *prometheus.CounterVec
	SessionDuration prometheus.Histogram
	CatalogStars    prometheus.Gauge
	HostKeysCreated prometheus.Counter
}

// NewRegistry creates a registry with every metric initialized, plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}

	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "starmap_sessions_active",
			Help: "Number of SSH sessions currently running the star map",
		},
	)

	r.SessionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmap_sessions_total",
			Help: "Total SSH sessions by result",
		},
		[]string{"result"}, // ok, no_pty, rejected, error
	)

	r.SessionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "starmap_session_duration_seconds",
			Help:    "Duration of completed SSH sessions in seconds",
			Buckets: []float64{1, 10, 30, 60, 300, 900, 1800, 3600},
		},
	)

	r.CatalogStars = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "starmap_catalog_stars",
			Help: "Number of stars in the loaded catalog",
		},
	)

	r.HostKeysCreated = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "starmap_host_keys_generated_total",
			Help: "Host keys generated at startup",
		},
	)

	return r
}

// SessionStarted marks a session as running.
func (r *Registry) SessionStarted() {
	r.SessionsActive.Inc()
}

// SessionEnded records a finished session that had been started.
func (r *Registry) SessionEnded(result string, duration time.Duration) {
	r.SessionsActive.Dec()
	r.SessionsTotal.WithLabelValues(result).Inc()
	r.SessionDuration.Observe(duration.Seconds())
}

// SessionRefused records a session turned away before it started.
func (r *Registry) SessionRefused(result string) {
	r.SessionsTotal.WithLabelValues(result).Inc()
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
