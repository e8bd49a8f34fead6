package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/solrprobe/internal/config"
	"github.com/wesleyorama2/solrprobe/internal/logging"
	"github.com/wesleyorama2/solrprobe/solr"
)

func detailedConfig(detailed bool) *config.Config {
	cfg := config.Default()
	cfg.LogDetails = detailed
	return cfg
}

func TestProbe_DetailedScenario(t *testing.T) {
	clock, sender, entry, client := setup(t)
	sender.delays["GET /select"] = 250 * time.Millisecond
	sender.delays["POST /update"] = 130 * time.Millisecond
	logger, entries := newCaptureLogger()

	p := New(entry, detailedConfig(true), WithLogger(logger), withClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, p.OnRequestStart(ctx))
	_, err := client.Select(ctx, "*:*", nil)
	require.NoError(t, err)
	_, err = client.Update(ctx, []map[string]interface{}{{"id": "1"}}, true)
	require.NoError(t, err)
	require.NoError(t, p.OnRequestEnd(ctx))

	assert.Equal(t, []string{
		"0.25s  GET /select",
		"0.13s POST /update",
		"2 Solr queries in 0.38s",
	}, messages(entries()))
	assert.Same(t, sender, entry.Sender())
}

func TestProbe_SummaryScenario(t *testing.T) {
	clock, sender, entry, client := setup(t)
	sender.delays["GET /select"] = 250 * time.Millisecond
	sender.delays["POST /update"] = 130 * time.Millisecond
	logger, entries := newCaptureLogger()

	p := New(entry, detailedConfig(false), WithLogger(logger), withClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, p.OnRequestStart(ctx))
	_, _ = client.Select(ctx, "*:*", nil)
	_, _ = client.Update(ctx, nil, false)
	require.NoError(t, p.OnRequestEnd(ctx))

	got := entries()
	require.Len(t, got, 1)
	assert.Equal(t, "2 Solr queries in 0.38s", got[0].Message)
	assert.Equal(t, int64(2), got[0].Attrs["count"].Int64())
}

func TestProbe_NilConfigDefaultsToSummary(t *testing.T) {
	_, _, entry, client := setup(t)
	logger, entries := newCaptureLogger()
	p := New(entry, nil, WithLogger(logger))

	require.NoError(t, p.OnRequestStart(context.Background()))
	_, _ = client.Ping(context.Background())
	require.NoError(t, p.OnRequestEnd(context.Background()))

	assert.Len(t, entries(), 1)
}

func TestProbe_LifecycleMisuse(t *testing.T) {
	_, _, entry, _ := setup(t)
	p := New(entry, nil, WithLogger(logging.Discard()))
	ctx := context.Background()

	err := p.OnRequestEnd(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInstalled))

	require.NoError(t, p.OnRequestStart(ctx))
	err = p.OnRequestStart(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyInstalled))

	require.NoError(t, p.OnRequestEnd(ctx))
	assert.ErrorIs(t, p.OnRequestEnd(ctx), ErrNotInstalled)
}

func TestProbe_FailureDoesNotLeaveWrapper(t *testing.T) {
	_, sender, entry, client := setup(t)
	sender.errs["GET /select"] = errors.New("timeout")
	logger, entries := newCaptureLogger()
	p := New(entry, detailedConfig(true), WithLogger(logger))
	ctx := context.Background()

	require.NoError(t, p.OnRequestStart(ctx))
	_, err := client.Select(ctx, "*:*", nil)
	assert.EqualError(t, err, "timeout")
	require.NoError(t, p.OnRequestEnd(ctx))

	assert.Same(t, sender, entry.Sender())
	got := entries()
	require.Len(t, got, 2)
	assert.Equal(t, "1 Solr queries in 0.00s", got[1].Message)
}

func TestProbe_Unavailable(t *testing.T) {
	logger, entries := newCaptureLogger()
	p := New(nil, detailedConfig(true), WithLogger(logger))
	ctx := context.Background()

	assert.False(t, p.Available())
	for i := 0; i < 3; i++ {
		require.NoError(t, p.OnRequestStart(ctx))
		require.NoError(t, p.OnRequestEnd(ctx))
	}
	require.NoError(t, p.OnRequestEnd(ctx))

	got := entries()
	require.Len(t, got, 1)
	assert.Equal(t, "solr probe disabled: no solr entry point available", got[0].Message)
	assert.Equal(t, "WARN", got[0].Level.String())

	next := &fakeSender{}
	assert.Same(t, next, p.ContextSender(next))
}

func TestProbe_AgainstHTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Millisecond)
		_, _ = w.Write([]byte(`{"responseHeader":{"status":0,"QTime":1},"response":{"numFound":1,"docs":[{"id":"a"}]}}`))
	}))
	defer server.Close()

	entry := solr.NewEntryPoint(nil)
	client := solr.NewClient(solr.WithBaseURL(server.URL), solr.WithEntryPoint(entry))
	logger, entries := newCaptureLogger()
	p := New(entry, detailedConfig(false), WithLogger(logger))
	ctx := context.Background()

	require.NoError(t, p.OnRequestStart(ctx))
	for i := 0; i < 3; i++ {
		resp, err := client.Select(ctx, "id:a", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.NumFound())
	}
	require.NoError(t, p.OnRequestEnd(ctx))

	got := entries()
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Attrs["count"].Int64())
	assert.GreaterOrEqual(t, got[0].Attrs["total"].Duration(), 6*time.Millisecond)
	assert.Equal(t, solr.DefaultSender, entry.Sender())
}
