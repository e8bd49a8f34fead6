package probe

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/wesleyorama2/solrprobe/internal/metrics"
)

// Option configures the probe's components.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Collector
	now     func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger reports are written to. The probe names it
// "solr".
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer opens a client span around every intercepted call.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithMetrics feeds every report into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// withClock replaces time.Now.
func withClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
