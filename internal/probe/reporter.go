package probe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/solrprobe/internal/logging"
	"github.com/wesleyorama2/solrprobe/internal/metrics"
)

// LoggerName names the logger reports are written to.
const LoggerName = "solr"

// Histogram range in microseconds: 1µs to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Summary aggregates the records of one request cycle.
type Summary struct {
	Count  int
	Failed int
	Total  time.Duration
	P50    time.Duration
	P95    time.Duration
	Max    time.Duration
}

// Summarize computes totals and latency percentiles over records.
func Summarize(records []CallRecord) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	hist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
	for _, rec := range records {
		s.Count++
		s.Total += rec.Elapsed
		if rec.Err != nil {
			s.Failed++
		}
		if rec.Elapsed > s.Max {
			s.Max = rec.Elapsed
		}
		_ = hist.RecordValue(clampMicros(rec.Elapsed))
	}
	s.P50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
	s.P95 = time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond
	// The histogram floor is 1µs; percentiles never exceed the slowest call.
	s.P50 = min(s.P50, s.Max)
	s.P95 = min(s.P95, s.Max)
	return s
}

func clampMicros(d time.Duration) int64 {
	us := d.Microseconds()
	if us < histogramMin {
		return histogramMin
	}
	if us > histogramMax {
		return histogramMax
	}
	return us
}

// Reporter logs the calls recorded during one request cycle.
type Reporter struct {
	logger   *slog.Logger
	detailed bool
	metrics  *metrics.Collector
}

// NewReporter returns a Reporter writing to the "solr" logger. With detailed
// set, every call gets its own line before the summary.
func NewReporter(detailed bool, opts ...Option) *Reporter {
	o := newOptions(opts)
	return &Reporter{
		logger:   logging.Named(o.logger, LoggerName),
		detailed: detailed,
		metrics:  o.metrics,
	}
}

// With returns a copy of r whose lines carry args, as slog.Logger.With.
func (r *Reporter) With(args ...any) *Reporter {
	cp := *r
	cp.logger = r.logger.With(args...)
	return &cp
}

// Detailed reports whether per-call lines are written.
func (r *Reporter) Detailed() bool {
	return r.detailed
}

// Report writes one info line per record in detailed mode, then a summary
// line with the call count and total elapsed time.
func (r *Reporter) Report(ctx context.Context, records []CallRecord) {
	if r.detailed {
		for _, rec := range records {
			if rec.Err != nil {
				r.logger.InfoContext(ctx, formatCall(rec), slog.String("error", rec.Err.Error()))
				continue
			}
			r.logger.InfoContext(ctx, formatCall(rec))
		}
	}

	s := Summarize(records)
	for _, rec := range records {
		r.metrics.ObserveCall(rec.Method, rec.Elapsed, rec.Err != nil)
	}
	r.metrics.ObserveCycle(s.Count, s.Total)

	r.logger.InfoContext(ctx, formatSummary(s),
		slog.Int("count", s.Count),
		slog.Int("failed", s.Failed),
		slog.Duration("total", s.Total),
		slog.Duration("p50", s.P50),
		slog.Duration("p95", s.P95),
		slog.Duration("max", s.Max),
	)
}

func formatCall(rec CallRecord) string {
	return fmt.Sprintf("%0.2fs %4s %s", rec.Elapsed.Seconds(), rec.Method, rec.Path)
}

func formatSummary(s Summary) string {
	return fmt.Sprintf("%d Solr queries in %0.2fs", s.Count, s.Total.Seconds())
}
