package probe

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/solrprobe/internal/logging"
	"github.com/wesleyorama2/solrprobe/internal/metrics"
)

var twoCalls = []CallRecord{
	{Elapsed: 1234 * time.Millisecond, Method: "GET", Path: "/select"},
	{Elapsed: 56 * time.Millisecond, Method: "POST", Path: "/update"},
}

func TestReporter_Detailed(t *testing.T) {
	logger, entries := newCaptureLogger()
	r := NewReporter(true, WithLogger(logger))

	r.Report(context.Background(), twoCalls)

	got := entries()
	assert.Equal(t, []string{
		"1.23s  GET /select",
		"0.06s POST /update",
		"2 Solr queries in 1.29s",
	}, messages(got))
	for _, e := range got {
		assert.Equal(t, slog.LevelInfo, e.Level)
		assert.Equal(t, "solr", e.Attrs["logger"].String())
	}

	summary := got[2]
	assert.Equal(t, int64(2), summary.Attrs["count"].Int64())
	assert.Equal(t, 1290*time.Millisecond, summary.Attrs["total"].Duration())
}

func TestReporter_SummaryOnly(t *testing.T) {
	logger, entries := newCaptureLogger()
	r := NewReporter(false, WithLogger(logger))

	r.Report(context.Background(), twoCalls)

	assert.Equal(t, []string{"2 Solr queries in 1.29s"}, messages(entries()))
}

func TestReporter_Empty(t *testing.T) {
	for _, detailed := range []bool{true, false} {
		logger, entries := newCaptureLogger()
		NewReporter(detailed, WithLogger(logger)).Report(context.Background(), nil)

		got := entries()
		require.Len(t, got, 1)
		assert.Equal(t, "0 Solr queries in 0.00s", got[0].Message)
		assert.Equal(t, int64(0), got[0].Attrs["count"].Int64())
	}
}

func TestReporter_FailedCallLine(t *testing.T) {
	logger, entries := newCaptureLogger()
	r := NewReporter(true, WithLogger(logger))

	r.Report(context.Background(), []CallRecord{
		{Elapsed: 10 * time.Millisecond, Method: "GET", Path: "/select", Err: errors.New("status 500")},
	})

	got := entries()
	require.Len(t, got, 2)
	assert.Equal(t, "0.01s  GET /select", got[0].Message)
	assert.Equal(t, "status 500", got[0].Attrs["error"].String())
	assert.Equal(t, int64(1), got[1].Attrs["failed"].Int64())
}

func TestReporter_With(t *testing.T) {
	logger, entries := newCaptureLogger()
	r := NewReporter(false, WithLogger(logger)).With("cycle", "abc")

	r.Report(context.Background(), nil)

	assert.Equal(t, "abc", entries()[0].Attrs["cycle"].String())
	assert.False(t, r.Detailed())
}

func TestReporter_FeedsMetrics(t *testing.T) {
	collector := metrics.New("test")
	r := NewReporter(false, WithLogger(logging.Discard()), WithMetrics(collector))

	r.Report(context.Background(), append(twoCalls, CallRecord{Method: "GET", Path: "/select", Err: errors.New("x")}))

	body, err := testutil.GatherAndCount(collector.Registry(), "test_solr_call_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, body)

	count, err := testutil.GatherAndCount(collector.Registry(), "test_request_solr_calls")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSummarize(t *testing.T) {
	var records []CallRecord
	for i := 1; i <= 100; i++ {
		records = append(records, CallRecord{Elapsed: time.Duration(i) * time.Millisecond})
	}

	s := Summarize(records)
	assert.Equal(t, 100, s.Count)
	assert.Equal(t, 5050*time.Millisecond, s.Total)
	assert.Equal(t, 100*time.Millisecond, s.Max)
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(s.P95), float64(time.Millisecond))
}

func TestSummarize_SumMatchesRecords(t *testing.T) {
	records := []CallRecord{
		{Elapsed: 333 * time.Microsecond},
		{Elapsed: 0},
		{Elapsed: 2*time.Second + 7*time.Nanosecond},
	}

	s := Summarize(records)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2*time.Second+333*time.Microsecond+7*time.Nanosecond, s.Total)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarize_PercentilesBoundedByMax(t *testing.T) {
	s := Summarize([]CallRecord{{Elapsed: 0}, {Elapsed: 0}})
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, time.Duration(0), s.Max)
	assert.Equal(t, time.Duration(0), s.P50)
	assert.Equal(t, time.Duration(0), s.P95)

	s = Summarize([]CallRecord{{Elapsed: 300 * time.Nanosecond}})
	assert.Equal(t, 300*time.Nanosecond, s.P50)
	assert.LessOrEqual(t, s.P95, s.Max)
}

