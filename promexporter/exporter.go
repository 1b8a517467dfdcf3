// Package promexporter exposes mpd client statistics to Prometheus.
package promexporter

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter manages Prometheus metrics export
type Exporter struct {
	registry  *prometheus.Registry
	collector *Collector
}

// NewExporter creates a new Prometheus exporter for source
func NewExporter(source StatsSource) *Exporter {
	registry := prometheus.NewRegistry()
	collector := NewCollector(source)
	registry.MustRegister(collector)

	return &Exporter{
		registry:  registry,
		collector: collector,
	}
}

// Registry returns the registry the collector is registered on, so callers can
// add their own metrics next to it.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns an HTTP handler for the /metrics endpoint
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// ListenAndServe serves the /metrics endpoint on addr until it fails.
func (e *Exporter) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	return http.ListenAndServe(addr, mux)
}
