package probe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wesleyorama2/solrprobe/internal/config"
	"github.com/wesleyorama2/solrprobe/internal/logging"
	"github.com/wesleyorama2/solrprobe/solr"
)

// Probe binds an Interceptor and a Reporter to a host's request lifecycle.
type Probe struct {
	interceptor *Interceptor
	reporter    *Reporter
	logger      *slog.Logger
	opts        []Option

	available bool
	warnOnce  sync.Once

	mu     sync.Mutex
	handle *Handle
}

// New returns a Probe for target configured by cfg. A nil cfg means
// config.Default. A nil target yields an inert Probe: it warns once and
// then does nothing for the life of the process.
func New(target *solr.EntryPoint, cfg *config.Config, opts ...Option) *Probe {
	if cfg == nil {
		cfg = config.Default()
	}
	o := newOptions(opts)
	p := &Probe{
		logger:    logging.Named(o.logger, LoggerName),
		opts:      opts,
		available: target != nil,
	}
	if p.available {
		p.interceptor = NewInterceptor(target, opts...)
		p.reporter = NewReporter(cfg.LogDetails, opts...)
	}
	return p
}

// Available reports whether the probe has an entry point to instrument.
func (p *Probe) Available() bool {
	return p.available
}

func (p *Probe) warnUnavailable() {
	p.warnOnce.Do(func() {
		p.logger.Warn("solr probe disabled: no solr entry point available")
	})
}

// OnRequestStart installs the timing wrapper. It fails with
// ErrAlreadyInstalled if the previous request was never ended.
func (p *Probe) OnRequestStart(ctx context.Context) error {
	if !p.available {
		p.warnUnavailable()
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	h, err := p.interceptor.Install()
	if err != nil {
		return fmt.Errorf("request start: %w", err)
	}
	p.handle = h
	return nil
}

// OnRequestEnd reports the calls recorded since OnRequestStart and removes
// the timing wrapper. It fails with ErrNotInstalled if no request started.
func (p *Probe) OnRequestEnd(ctx context.Context) error {
	if !p.available {
		p.warnUnavailable()
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	h := p.handle
	if h == nil {
		return fmt.Errorf("request end: %w", ErrNotInstalled)
	}
	p.handle = nil

	p.reporter.Report(ctx, h.Recorder().Drain())

	if err := p.interceptor.Uninstall(); err != nil {
		return fmt.Errorf("request end: %w", err)
	}
	return nil
}

// ContextSender wraps next so calls are timed into the Recorder that
// Middleware puts in each request's context.
func (p *Probe) ContextSender(next solr.Sender) solr.Sender {
	if !p.available {
		return next
	}
	return ContextSender(next, p.opts...)
}
