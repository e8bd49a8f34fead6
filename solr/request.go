package solr

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one call to a Solr handler. Use NewRequest and chain
// method calls to configure it.
type Request struct {
	Method  string
	Path    string
	Params  url.Values
	Headers map[string]string
	Body    interface{}
}

// NewRequest creates a request for the handler at path, relative to the
// client's core URL.
//
// Example:
//
//	req := solr.NewRequest("GET", "/select").
//	    WithParam("q", "*:*").
//	    WithParam("rows", "10")
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Params:  make(url.Values),
		Headers: make(map[string]string),
	}
}

// WithHeader sets a header on the request.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithParam adds a query parameter. Solr accepts repeated parameters such as
// fq, so calling this several times with the same key keeps every value.
func (r *Request) WithParam(key, value string) *Request {
	r.Params.Add(key, value)
	return r
}

// WithParams adds every value in params.
func (r *Request) WithParams(params url.Values) *Request {
	for key, values := range params {
		for _, value := range values {
			r.Params.Add(key, value)
		}
	}
	return r
}

// WithBody sets the request body.
// The body can be:
//   - string: sent as-is
//   - []byte: sent as-is
//   - io.Reader: read and sent
//   - any other type: marshaled as JSON (Content-Type defaults to application/json)
func (r *Request) WithBody(body interface{}) *Request {
	r.Body = body
	return r
}

// Build constructs an http.Request against the core at baseURL.
func (r *Request) Build(baseURL string) (*http.Request, error) {
	return r.build(baseURL, r.Method, r.Path)
}

func (r *Request) build(baseURL, method, path string) (*http.Request, error) {
	reqURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	if reqURL.Path == "" {
		reqURL.Path = path
	} else {
		reqURL.Path = strings.TrimRight(reqURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	}

	query := reqURL.Query()
	for key, values := range r.Params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	reqURL.RawQuery = query.Encode()

	headers := make(map[string]string, len(r.Headers)+1)
	for key, value := range r.Headers {
		headers[key] = value
	}

	var bodyReader io.Reader
	if r.Body != nil {
		switch body := r.Body.(type) {
		case string:
			bodyReader = strings.NewReader(body)
		case []byte:
			bodyReader = bytes.NewReader(body)
		case io.Reader:
			bodyReader = body
		default:
			jsonBody, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			bodyReader = bytes.NewReader(jsonBody)
			if _, ok := headers["Content-Type"]; !ok {
				headers["Content-Type"] = "application/json"
			}
		}
	}

	req, err := http.NewRequest(method, reqURL.String(), bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
