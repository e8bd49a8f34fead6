// Package config loads the probe's configuration from YAML or JSON files
// and from the environment.
//
// Basic Usage:
//
//	cfg, err := config.LoadConfig("solrprobe.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.LookupEnv)
//
//	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
//	    for _, err := range errs {
//	        log.Printf("Validation error: %s", err)
//	    }
//	}
//
// An absent file is not required: Default returns a usable configuration
// with detailed logging turned off.
package config

import "time"

// Config represents the top-level configuration file structure.
type Config struct {
	// LogDetails enables one log line per intercepted Solr call
	LogDetails bool `yaml:"log_details" json:"log_details"`

	// Logging configures the log sink
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Solr points the bundled commands at a core
	Solr SolrConfig `yaml:"solr" json:"solr"`

	// Server configures the serve command
	Server ServerConfig `yaml:"server" json:"server"`

	// Metrics configures Prometheus collectors
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Tracing configures OpenTelemetry export
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`
}

// LoggingConfig controls logger construction.
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	Format  string `yaml:"format" json:"format"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// SolrConfig identifies the Solr core.
type SolrConfig struct {
	URL     string `yaml:"url" json:"url"`
	Timeout string `yaml:"timeout" json:"timeout"`

	// Insecure skips TLS certificate verification
	Insecure bool `yaml:"insecure" json:"insecure"`
}

// TimeoutDuration parses Timeout, falling back to DefaultSolrTimeout.
func (s SolrConfig) TimeoutDuration() time.Duration {
	if s.Timeout == "" {
		return DefaultSolrTimeout
	}
	d, err := parseDurationString(s.Timeout)
	if err != nil {
		return DefaultSolrTimeout
	}
	return d
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Listen string `yaml:"listen" json:"listen"`
}

// MetricsConfig configures Prometheus collection.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
}

// TracingConfig configures OTLP span export.
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	Insecure    bool    `yaml:"insecure" json:"insecure"`
	SampleRate  float64 `yaml:"sample_rate" json:"sample_rate"`
}

// Enabled reports whether spans should be exported.
func (t TracingConfig) Enabled() bool {
	return t.Endpoint != ""
}

const (
	DefaultSolrTimeout = 10 * time.Second
	DefaultListen      = ":8080"
	DefaultNamespace   = "solrprobe"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Solr: SolrConfig{
			Timeout: DefaultSolrTimeout.String(),
		},
		Server: ServerConfig{
			Listen: DefaultListen,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			ServiceName: "solrprobe",
			SampleRate:  1.0,
		},
	}
}
