// Package observability exposes run metrics over a small HTTP surface.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the scraper's Prometheus collectors. Everything registers
// on a private registry so tests can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	PagesCrawled   prometheus.Counter
	CardsExtracted prometheus.Counter
	CardsSkipped   prometheus.Counter
	Retries        prometheus.Counter
	BatchErrors    prometheus.Counter
	RunDuration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PagesCrawled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scraper_pages_crawled_total",
			Help: "Listing pages successfully fetched and parsed.",
		}),
		CardsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scraper_cards_extracted_total",
			Help: "Product cards normalized into records.",
		}),
		CardsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scraper_cards_skipped_total",
			Help: "Product cards dropped during extraction or normalization.",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scraper_navigation_retries_total",
			Help: "Page navigations that needed a retry.",
		}),
		BatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scraper_batch_errors_total",
			Help: "Upsert batches that failed terminally.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_run_duration_seconds",
			Help:    "Wall-clock duration of complete scrape runs.",
			Buckets: prometheus.ExponentialBuckets(30, 2, 8),
		}),
	}

	m.registry.MustRegister(
		m.PagesCrawled, m.CardsExtracted, m.CardsSkipped,
		m.Retries, m.BatchErrors, m.RunDuration,
	)
	return m
}

// Handler returns the HTTP surface: Prometheus scrape endpoint plus a
// liveness probe.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return r
}

// Serve runs the metrics listener until the context is cancelled. Callers
// start it in a goroutine; a scrape run does not wait on it.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) {
	srv := &http.Server{
		Addr:         addr,
		Handler:      m.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener failed", "error", err)
	}
}
