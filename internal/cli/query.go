package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/solrprobe/internal/output"
	"github.com/wesleyorama2/solrprobe/internal/probe"
	"github.com/wesleyorama2/solrprobe/solr"
)

// errCallsFailed is returned when at least one Solr call in a cycle failed.
var errCallsFailed = errors.New("one or more Solr calls failed")

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [SOLR_CORE_URL]",
		Short: "Run queries against a core inside one profiled request cycle",
		Example: `  solrprobe query http://localhost:8983/solr/products -q 'name:widget' -q '*:*' --details
  SOLRPROBE_SOLR_URL=http://localhost:8983/solr/products solrprobe query -q 'id:1'`,
		Args: cobra.MaximumNArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringArrayP("query", "q", []string{"*:*"}, "Query to run (can be used multiple times)")
	cmd.Flags().StringArray("fq", []string{}, "Filter query applied to every query (can be used multiple times)")
	cmd.Flags().Int("rows", 10, "Rows to return per query")
	cmd.Flags().BoolP("verbose", "v", false, "Print timing breakdown and documents")
	cmd.Flags().DurationP("timeout", "t", 0, "Per-call timeout (defaults to solr.timeout from config)")

	return cmd
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping [SOLR_CORE_URL]",
		Short: "Ping a core inside one profiled request cycle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd, args, func(ctx context.Context, client *solr.Client, f *output.Formatter) error {
				fmt.Fprint(cmd.OutOrStdout(), f.FormatQuery(http.MethodGet, client.BaseURL(), "/admin/ping", ""))
				resp, err := client.Ping(ctx)
				if err != nil {
					fmt.Fprint(cmd.OutOrStdout(), f.FormatError(err))
					return errCallsFailed
				}
				fmt.Fprint(cmd.OutOrStdout(), f.FormatResponse(resp))
				return nil
			})
		},
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	queries, _ := cmd.Flags().GetStringArray("query")
	filters, _ := cmd.Flags().GetStringArray("fq")
	rows, _ := cmd.Flags().GetInt("rows")

	params := url.Values{}
	for _, fq := range filters {
		params.Add("fq", fq)
	}
	params.Set("rows", strconv.Itoa(rows))

	return runCycle(cmd, args, func(ctx context.Context, client *solr.Client, f *output.Formatter) error {
		var failed bool
		for _, q := range queries {
			fmt.Fprint(cmd.OutOrStdout(), f.FormatQuery(http.MethodGet, client.BaseURL(), "/select", q))
			resp, err := client.Select(ctx, q, params)
			if err != nil {
				fmt.Fprint(cmd.OutOrStdout(), f.FormatError(err))
				failed = true
				continue
			}
			fmt.Fprint(cmd.OutOrStdout(), f.FormatResponse(resp))
		}
		if failed {
			return errCallsFailed
		}
		return nil
	})
}

// runCycle wraps fn in one request cycle on the global entry point.
func runCycle(cmd *cobra.Command, args []string, fn func(context.Context, *solr.Client, *output.Formatter) error) error {
	rt, err := loadRuntime(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = rt.shutdown(context.Background()) }()

	coreURL := rt.cfg.Solr.URL
	if len(args) == 1 {
		coreURL = args[0]
	}
	if coreURL == "" {
		return fmt.Errorf("a Solr core URL is required (argument, solr.url or SOLRPROBE_SOLR_URL)")
	}

	timeout := rt.cfg.Solr.TimeoutDuration()
	if t, _ := cmd.Flags().GetDuration("timeout"); t > 0 {
		timeout = t
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	clientOpts := []solr.ClientOption{
		solr.WithBaseURL(coreURL),
		solr.WithTimeout(timeout),
		solr.WithHeader("User-Agent", "solrprobe/"+version),
	}
	if rt.cfg.Solr.Insecure {
		clientOpts = append(clientOpts, solr.WithInsecureSkipVerify())
	}
	client := solr.NewClient(clientOpts...)
	formatter := output.NewFormatter(verbose, rt.noColor)
	p := probe.New(solr.Global, rt.cfg, rt.probeOptions()...)

	ctx := cmd.Context()
	if err := p.OnRequestStart(ctx); err != nil {
		return err
	}
	runErr := fn(ctx, client, formatter)
	if err := p.OnRequestEnd(ctx); err != nil {
		return err
	}
	return runErr
}
