// Package probe measures the Solr calls made while serving one inbound
// request and logs a summary when the request ends.
//
// A host drives the probe through two hooks:
//
//	p := probe.New(solr.Global, cfg, probe.WithLogger(logger))
//
//	if err := p.OnRequestStart(ctx); err != nil {
//	    return err
//	}
//	// ... handle the request, making Solr calls ...
//	if err := p.OnRequestEnd(ctx); err != nil {
//	    return err
//	}
//
// OnRequestStart swaps a timing wrapper into the Solr entry point and
// OnRequestEnd reports what it recorded and restores the original Sender.
// The entry point is shared by every client using it, so these hooks assume
// the host serves one request at a time.
//
// Hosts that serve requests concurrently use Middleware instead, together
// with a client whose Sender is p.ContextSender: each request then carries
// its own Recorder in its context and nothing shared is swapped.
//
// With detailed logging the report looks like:
//
//	0.02s  GET /select
//	0.01s POST /update
//	2 Solr queries in 0.03s
package probe
