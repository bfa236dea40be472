// Package metrics exposes marketplace activity as Prometheus metrics.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/ewaste/internal/store"
)

const namespace = "ewaste"

// Metrics owns a private registry. It implements controller.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	actions      *prometheus.CounterVec
	items        prometheus.Gauge
	claimedItems prometheus.Gauge
	requests     *prometheus.CounterVec
}

// New creates the metric set and registers it with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "User actions handled, by action and result.",
		}, []string{"action", "result"}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Items currently listed.",
		}),
		claimedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "claimed_items",
			Help:      "Listed items that have been claimed.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		m.actions,
		m.items,
		m.claimedItems,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Action counts one handled user action.
func (m *Metrics) Action(action, result string) {
	m.actions.WithLabelValues(action, result).Inc()
}

// Track initializes the item gauges from s and keeps them current.
func (m *Metrics) Track(ctx context.Context, s *store.Store) error {
	total, claimed, err := s.Stats(ctx)
	if err != nil {
		return fmt.Errorf("reading item stats: %w", err)
	}
	m.items.Set(float64(total))
	m.claimedItems.Set(float64(claimed))

	s.Subscribe(func(c store.Change) {
		switch c.Kind {
		case store.ChangePosted:
			m.items.Inc()
		case store.ChangeClaimed:
			m.claimedItems.Inc()
		}
	})
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// InstrumentHandler counts requests served by next.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.requests, next)
}
