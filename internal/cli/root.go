package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/solrprobe/internal/config"
	"github.com/wesleyorama2/solrprobe/internal/logging"
	"github.com/wesleyorama2/solrprobe/internal/metrics"
	"github.com/wesleyorama2/solrprobe/internal/probe"
	"github.com/wesleyorama2/solrprobe/internal/tracing"
)

var version = "0.1.0"

// NewRootCmd builds the solrprobe command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "solrprobe",
		Short:   "Profile the Solr calls made while serving a request",
		Version: version,
		Long: `solrprobe measures the latency and count of the Solr calls made during
one request cycle and logs a summary when the cycle ends, optionally with one
line per call.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to a YAML or JSON config file")
	root.PersistentFlags().Bool("details", false, "Log one line per Solr call")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "Log format (text, json)")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	root.AddCommand(newQueryCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(newServeCmd())

	return root
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// runtime holds what every command needs once flags and config are merged.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Collector
	tracing  *tracing.Provider
	noColor  bool
	shutdown func(context.Context) error
}

func (rt *runtime) probeOptions() []probe.Option {
	opts := []probe.Option{probe.WithLogger(rt.logger)}
	if rt.metrics != nil {
		opts = append(opts, probe.WithMetrics(rt.metrics))
	}
	if rt.tracing.Enabled() {
		opts = append(opts, probe.WithTracer(rt.tracing.Tracer()))
	}
	return opts
}

// loadRuntime merges the config file, the environment and command flags, in
// that order of increasing precedence.
func loadRuntime(cmd *cobra.Command, logOut io.Writer) (*runtime, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("details") {
		cfg.LogDetails, _ = cmd.Flags().GetBool("details")
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Logging.Format = format
	}
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		cfg.Logging.NoColor = true
	}

	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errs[0])
	}

	logger, err := logging.New(logOut, cfg.Logging)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:     cfg,
		logger:  logger,
		noColor: cfg.Logging.NoColor,
	}
	if cfg.Metrics.Enabled {
		rt.metrics = metrics.New(cfg.Metrics.Namespace)
	}

	rt.tracing, err = tracing.Init(cmd.Context(), cfg.Tracing)
	if err != nil {
		return nil, err
	}
	rt.shutdown = rt.tracing.Shutdown

	return rt, nil
}
