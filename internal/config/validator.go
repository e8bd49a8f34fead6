package config

import (
	"fmt"
	"net/url"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateConfig runs the semantic checks the schema cannot express.
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if config.Solr.URL != "" {
		u, err := url.Parse(config.Solr.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, ValidationError{
				Path:    "solr.url",
				Message: fmt.Sprintf("must be an http(s) URL, got %q", config.Solr.URL),
			})
		}
	}

	if config.Solr.Timeout != "" {
		d, err := parseDurationString(config.Solr.Timeout)
		if err != nil {
			errors = append(errors, ValidationError{
				Path:    "solr.timeout",
				Message: fmt.Sprintf("invalid duration %q", config.Solr.Timeout),
			})
		} else if d <= 0 {
			errors = append(errors, ValidationError{
				Path:    "solr.timeout",
				Message: "must be positive",
			})
		}
	}

	if config.Tracing.SampleRate < 0 || config.Tracing.SampleRate > 1 {
		errors = append(errors, ValidationError{
			Path:    "tracing.sample_rate",
			Message: fmt.Sprintf("must be between 0.0 and 1.0, got %g", config.Tracing.SampleRate),
		})
	}

	return errors
}
