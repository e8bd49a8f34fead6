package solr

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to a single Solr core.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	entry      *EntryPoint
	sender     Sender
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new Solr client with the given options.
//
// Example:
//
//	client := solr.NewClient(
//	    solr.WithBaseURL("http://localhost:8983/solr/products"),
//	    solr.WithTimeout(10*time.Second),
//	)
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
		entry:   Global,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithBaseURL sets the core URL, for example http://localhost:8983/solr/products.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the timeout for every call. The default is 30 seconds.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeader adds a default header to every call.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// WARNING: This should only be used for testing purposes.
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithEntryPoint routes the client's calls through e instead of Global.
func WithEntryPoint(e *EntryPoint) ClientOption {
	return func(c *Client) {
		c.entry = e
	}
}

// WithSender makes the client call s directly, bypassing any entry point.
func WithSender(s Sender) ClientOption {
	return func(c *Client) {
		c.sender = s
	}
}

// BaseURL returns the core URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) dispatcher() Sender {
	if c.sender != nil {
		return c.sender
	}
	if c.entry != nil {
		return c.entry.Sender()
	}
	return Global.Sender()
}

// Do dispatches req through the client's entry point.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.dispatcher().Send(ctx, c, req.Method, req.Path, req)
}

// Select runs a query against the /select handler. Extra parameters such as
// fq, rows or sort are taken from params.
func (c *Client) Select(ctx context.Context, query string, params url.Values) (*Response, error) {
	req := NewRequest(http.MethodGet, "/select").
		WithParam("q", query).
		WithParam("wt", "json").
		WithParams(params)
	return c.Do(ctx, req)
}

// Update indexes docs through the JSON /update handler.
func (c *Client) Update(ctx context.Context, docs []map[string]interface{}, commit bool) (*Response, error) {
	req := NewRequest(http.MethodPost, "/update").
		WithParam("wt", "json").
		WithParam("commit", strconv.FormatBool(commit)).
		WithBody(docs)
	return c.Do(ctx, req)
}

// DeleteByID removes the documents with the given unique keys.
func (c *Client) DeleteByID(ctx context.Context, ids []string, commit bool) (*Response, error) {
	return c.update(ctx, map[string]interface{}{"delete": ids}, commit)
}

// DeleteByQuery removes every document matching query.
func (c *Client) DeleteByQuery(ctx context.Context, query string, commit bool) (*Response, error) {
	return c.update(ctx, map[string]interface{}{"delete": map[string]string{"query": query}}, commit)
}

// Commit issues a hard commit.
func (c *Client) Commit(ctx context.Context) (*Response, error) {
	return c.update(ctx, map[string]interface{}{"commit": map[string]interface{}{}}, false)
}

// Ping calls the core's ping handler.
func (c *Client) Ping(ctx context.Context) (*Response, error) {
	req := NewRequest(http.MethodGet, "/admin/ping").WithParam("wt", "json")
	return c.Do(ctx, req)
}

func (c *Client) update(ctx context.Context, command map[string]interface{}, commit bool) (*Response, error) {
	req := NewRequest(http.MethodPost, "/update").
		WithParam("wt", "json").
		WithBody(command)
	if commit {
		req.WithParam("commit", "true")
	}
	return c.Do(ctx, req)
}
