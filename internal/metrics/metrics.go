// Package metrics exposes Prometheus collectors for Solr calls observed by
// the probe.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a registry with the probe's metrics. The zero value is not
// usable; create one with New. A nil *Collector ignores observations.
type Collector struct {
	registry *prometheus.Registry

	callLatency  *prometheus.HistogramVec
	callErrors   *prometheus.CounterVec
	cycleCalls   prometheus.Histogram
	cycleLatency prometheus.Histogram
}

// New registers the collectors under namespace.
func New(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		callLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solr_call_duration_seconds",
				Help:      "Latency of individual Solr calls, partitioned by method.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method"},
		),
		callErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solr_call_errors_total",
				Help:      "Solr calls that returned an error, partitioned by method.",
			},
			[]string{"method"},
		),
		cycleCalls: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_solr_calls",
				Help:      "Number of Solr calls made while serving one request.",
				Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
		cycleLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_solr_duration_seconds",
				Help:      "Total time spent in Solr calls while serving one request.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	c.registry.MustRegister(c.callLatency, c.callErrors, c.cycleCalls, c.cycleLatency)
	return c
}

// ObserveCall records one Solr call.
func (c *Collector) ObserveCall(method string, elapsed time.Duration, failed bool) {
	if c == nil {
		return
	}
	c.callLatency.WithLabelValues(method).Observe(elapsed.Seconds())
	if failed {
		c.callErrors.WithLabelValues(method).Inc()
	}
}

// ObserveCycle records the totals of one request cycle.
func (c *Collector) ObserveCycle(calls int, total time.Duration) {
	if c == nil {
		return
	}
	c.cycleCalls.Observe(float64(calls))
	c.cycleLatency.Observe(total.Seconds())
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the registry for Prometheus scrapers.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
