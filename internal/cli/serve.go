package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/solrprobe/internal/metrics"
	"github.com/wesleyorama2/solrprobe/internal/probe"
	"github.com/wesleyorama2/solrprobe/solr"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a search endpoint whose Solr calls are profiled per request",
		Example: `  solrprobe serve --solr http://localhost:8983/solr/products --listen :8080
  curl 'http://localhost:8080/search?q=name:widget'`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("solr", "", "Solr core URL (defaults to solr.url from config)")
	cmd.Flags().String("listen", "", "Listen address (defaults to server.listen from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = rt.shutdown(context.Background()) }()

	if u, _ := cmd.Flags().GetString("solr"); u != "" {
		rt.cfg.Solr.URL = u
	}
	if rt.cfg.Solr.URL == "" {
		return errors.New("a Solr core URL is required (--solr, solr.url or SOLRPROBE_SOLR_URL)")
	}
	listen := rt.cfg.Server.Listen
	if l, _ := cmd.Flags().GetString("listen"); l != "" {
		listen = l
	}

	p := probe.New(solr.Global, rt.cfg, rt.probeOptions()...)
	clientOpts := []solr.ClientOption{
		solr.WithBaseURL(rt.cfg.Solr.URL),
		solr.WithTimeout(rt.cfg.Solr.TimeoutDuration()),
		solr.WithSender(p.ContextSender(solr.Global.Sender())),
	}
	if rt.cfg.Solr.Insecure {
		clientOpts = append(clientOpts, solr.WithInsecureSkipVerify())
	}
	client := solr.NewClient(clientOpts...)

	srv := &http.Server{
		Addr:         listen,
		Handler:      newServeMux(client, p, rt.metrics),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: rt.cfg.Solr.TimeoutDuration() + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("listening", "addr", listen, "solr", rt.cfg.Solr.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	rt.logger.Info("shutdown complete")
	return nil
}

// newServeMux routes /search through the probe middleware so each request
// gets its own cycle report.
func newServeMux(client *solr.Client, p *probe.Probe, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/search", p.Middleware(searchHandler(client)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if collector != nil {
		mux.Handle("/metrics", collector.Handler())
	}

	return mux
}

type searchResult struct {
	NumFound int64             `json:"numFound"`
	QTime    int64             `json:"qtime"`
	Docs     []json.RawMessage `json:"docs"`
}

func searchHandler(client *solr.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			q = "*:*"
		}
		params := r.URL.Query()
		params.Del("q")
		// Responses are always parsed as JSON.
		params.Del("wt")
		if params.Get("rows") != "" {
			if _, err := strconv.Atoi(params.Get("rows")); err != nil {
				http.Error(w, "rows must be an integer", http.StatusBadRequest)
				return
			}
		}

		resp, err := client.Select(r.Context(), q, params)
		if err != nil {
			status := http.StatusBadGateway
			var solrErr *solr.Error
			if errors.As(err, &solrErr) && solrErr.StatusCode == http.StatusBadRequest {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}

		result := searchResult{NumFound: resp.NumFound(), QTime: resp.QTime(), Docs: []json.RawMessage{}}
		for _, doc := range resp.Docs() {
			result.Docs = append(result.Docs, json.RawMessage(doc))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	})
}
