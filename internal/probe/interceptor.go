package probe

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wesleyorama2/solrprobe/internal/tracing"
	"github.com/wesleyorama2/solrprobe/solr"
)

var (
	// ErrAlreadyInstalled is returned by Install while a Handle is live on
	// the same entry point.
	ErrAlreadyInstalled = errors.New("probe: timing wrapper already installed")

	// ErrNotInstalled is returned by Uninstall when this Interceptor has
	// no live Handle.
	ErrNotInstalled = errors.New("probe: timing wrapper not installed")
)

// live holds the single installed Handle of each entry point.
var live = struct {
	sync.Mutex
	handles map[*solr.EntryPoint]*Handle
}{handles: make(map[*solr.EntryPoint]*Handle)}

// Handle is an installed timing wrapper. It owns the Sender that was in
// place before installation and the Recorder the wrapper appends to.
type Handle struct {
	owner    *Interceptor
	original solr.Sender
	recorder *Recorder
}

// Recorder returns the Recorder filled by this installation.
func (h *Handle) Recorder() *Recorder {
	return h.recorder
}

// Original returns the Sender that Uninstall restores.
func (h *Handle) Original() solr.Sender {
	return h.original
}

// Interceptor installs and removes the timing wrapper on one entry point.
type Interceptor struct {
	target *solr.EntryPoint
	opts   []Option
}

// NewInterceptor returns an Interceptor for target.
func NewInterceptor(target *solr.EntryPoint, opts ...Option) *Interceptor {
	return &Interceptor{target: target, opts: opts}
}

// Install saves the current Sender of the entry point and replaces it with
// a wrapper that times every call into a fresh Recorder.
func (i *Interceptor) Install() (*Handle, error) {
	live.Lock()
	defer live.Unlock()

	if _, ok := live.handles[i.target]; ok {
		return nil, ErrAlreadyInstalled
	}

	h := &Handle{owner: i, recorder: NewRecorder()}
	h.original = i.target.Decorate(func(current solr.Sender) solr.Sender {
		return Wrap(current, h.recorder, i.opts...)
	})
	live.handles[i.target] = h
	return h, nil
}

// Uninstall restores the Sender saved by Install.
func (i *Interceptor) Uninstall() error {
	live.Lock()
	defer live.Unlock()

	h, ok := live.handles[i.target]
	if !ok || h.owner != i {
		return ErrNotInstalled
	}

	i.target.Swap(h.original)
	delete(live.handles, i.target)
	return nil
}

// Installed reports whether this Interceptor has a live Handle.
func (i *Interceptor) Installed() bool {
	live.Lock()
	defer live.Unlock()
	h, ok := live.handles[i.target]
	return ok && h.owner == i
}

// Wrap returns a Sender that times every call to next into rec. It can be
// handed to solr.WithSender to time a single client without touching any
// shared entry point.
func Wrap(next solr.Sender, rec *Recorder, opts ...Option) solr.Sender {
	o := newOptions(opts)
	return &timingSender{next: next, rec: rec, tracer: o.tracer, now: o.now}
}

// ContextSender returns a Sender that times calls into the Recorder carried
// by their context (see WithRecorder). Calls without one pass through.
func ContextSender(next solr.Sender, opts ...Option) solr.Sender {
	o := newOptions(opts)
	return &timingSender{next: next, tracer: o.tracer, now: o.now}
}

type timingSender struct {
	next   solr.Sender
	rec    *Recorder
	tracer trace.Tracer
	now    func() time.Time
}

func (s *timingSender) Send(ctx context.Context, c *solr.Client, method, path string, req *solr.Request) (resp *solr.Response, err error) {
	rec := s.rec
	if rec == nil {
		rec = RecorderFromContext(ctx)
	}
	if rec == nil {
		return s.next.Send(ctx, c, method, path, req)
	}

	// done stays false while a panic unwinds through the deferred calls.
	done := false
	if s.tracer != nil {
		var span trace.Span
		ctx, span = tracing.StartCallSpan(ctx, s.tracer, method, path)
		defer func() {
			if !done {
				span.SetStatus(codes.Error, "panic")
				span.End()
				return
			}
			tracing.EndSpan(span, err)
		}()
	}

	start := s.now()
	defer func() {
		rec.Append(CallRecord{
			Elapsed: s.now().Sub(start),
			Method:  method,
			Path:    path,
			Err:     err,
		})
	}()

	resp, err = s.next.Send(ctx, c, method, path, req)
	done = true
	return resp, err
}

type recorderKey struct{}

// WithRecorder returns a context whose Solr calls ContextSender records
// into rec.
func WithRecorder(ctx context.Context, rec *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

// RecorderFromContext returns the Recorder stored by WithRecorder, or nil.
func RecorderFromContext(ctx context.Context) *Recorder {
	rec, _ := ctx.Value(recorderKey{}).(*Recorder)
	return rec
}
