package solr

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Build(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
	}{
		{"core path", "http://localhost:8983/solr/products", "/select", "http://localhost:8983/solr/products/select?q=%2A%3A%2A"},
		{"trailing slash", "http://localhost:8983/solr/products/", "select", "http://localhost:8983/solr/products/select?q=%2A%3A%2A"},
		{"no path", "http://localhost:8983", "/select", "http://localhost:8983/select?q=%2A%3A%2A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest("GET", tt.path).WithParam("q", "*:*").Build(tt.baseURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.URL.String())
		})
	}
}

func TestRequest_BuildBodies(t *testing.T) {
	req, err := NewRequest("POST", "/update").
		WithBody([]map[string]string{{"id": "1"}}).
		Build("http://localhost:8983/solr/core")
	require.NoError(t, err)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	body, _ := io.ReadAll(req.Body)
	assert.Equal(t, `[{"id":"1"}]`, string(body))

	req, err = NewRequest("POST", "/update").
		WithHeader("Content-Type", "application/xml").
		WithBody("<commit/>").
		Build("http://localhost:8983/solr/core")
	require.NoError(t, err)
	assert.Equal(t, "application/xml", req.Header.Get("Content-Type"))
	body, _ = io.ReadAll(req.Body)
	assert.Equal(t, "<commit/>", string(body))
}

func TestRequest_BuildInvalidURL(t *testing.T) {
	_, err := NewRequest("GET", "/select").Build("://bad")
	assert.Error(t, err)
}
