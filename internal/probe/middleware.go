package probe

import (
	"log/slog"
	"net/http"

	"github.com/oklog/ulid/v2"
)

// CycleKey is the log attribute identifying one request cycle.
const CycleKey = "cycle"

// Middleware records the Solr calls made while next serves each request and
// reports them when next returns, even if it panics. Only clients whose
// Sender comes from p.ContextSender are measured.
func (p *Probe) Middleware(next http.Handler) http.Handler {
	if !p.available {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p.warnUnavailable()
			next.ServeHTTP(w, r)
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := NewRecorder()
		reporter := p.reporter.With(slog.String(CycleKey, ulid.Make().String()))
		ctx := WithRecorder(r.Context(), rec)

		defer func() {
			reporter.Report(ctx, rec.Drain())
		}()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
