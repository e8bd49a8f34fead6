package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "solrprobe.schema.json"

// configSchema describes the accepted shape of a configuration file. Semantic
// checks that need more than shape live in ValidateConfig.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "log_details": {"type": "boolean"},
    "logging": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "error"]},
        "format": {"enum": ["text", "json"]},
        "no_color": {"type": "boolean"}
      }
    },
    "solr": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "url": {"type": "string"},
        "timeout": {"type": "string", "minLength": 1},
        "insecure": {"type": "boolean"}
      }
    },
    "server": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "listen": {"type": "string", "minLength": 1}
      }
    },
    "metrics": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "namespace": {"type": "string", "pattern": "^[a-zA-Z_][a-zA-Z0-9_]*$"}
      }
    },
    "tracing": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "endpoint": {"type": "string"},
        "service_name": {"type": "string"},
        "insecure": {"type": "boolean"},
        "sample_rate": {"type": "number", "minimum": 0, "maximum": 1}
      }
    }
  }
}`

var (
	compiledSchema *jsonschema.Schema
	compileErr     error
	compileOnce    sync.Once
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(configSchema)); err != nil {
			compileErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateSchema checks a decoded JSON document against configSchema.
func validateSchema(doc interface{}) error {
	s, err := schema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
