package probe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wesleyorama2/solrprobe/solr"
)

// fakeClock is advanced explicitly by fakeSender so elapsed times are exact.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeSender stands in for the HTTP sender. Each call takes the next
// scripted duration on the clock and returns the scripted outcome.
type fakeSender struct {
	clock *fakeClock

	mu       sync.Mutex
	calls    []string
	delays   map[string]time.Duration
	errs     map[string]error
	panics   map[string]interface{}
	response *solr.Response
}

func newFakeSender(clock *fakeClock) *fakeSender {
	return &fakeSender{
		clock:    clock,
		delays:   make(map[string]time.Duration),
		errs:     make(map[string]error),
		panics:   make(map[string]interface{}),
		response: &solr.Response{StatusCode: 200},
	}
}

func (f *fakeSender) Send(ctx context.Context, c *solr.Client, method, path string, req *solr.Request) (*solr.Response, error) {
	key := method + " " + path
	f.mu.Lock()
	f.calls = append(f.calls, key)
	delay := f.delays[key]
	err := f.errs[key]
	p := f.panics[key]
	f.mu.Unlock()

	if f.clock != nil {
		f.clock.Advance(delay)
	}
	if p != nil {
		panic(p)
	}
	if err != nil {
		return nil, err
	}
	return f.response, nil
}

type logEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]slog.Value
}

// captureHandler keeps every record so tests can assert on log lines.
type captureHandler struct {
	mu      *sync.Mutex
	entries *[]logEntry
	attrs   []slog.Attr
}

func newCaptureLogger() (*slog.Logger, func() []logEntry) {
	var entries []logEntry
	h := &captureHandler{mu: &sync.Mutex{}, entries: &entries}
	read := func() []logEntry {
		h.mu.Lock()
		defer h.mu.Unlock()
		out := make([]logEntry, len(entries))
		copy(out, entries)
		return out
	}
	return slog.New(h), read
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	e := logEntry{Level: r.Level, Message: r.Message, Attrs: make(map[string]slog.Value)}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value
		return true
	})
	h.mu.Lock()
	*h.entries = append(*h.entries, e)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func messages(entries []logEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}
