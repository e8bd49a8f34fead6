package solr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// TimingInfo stores detailed timing information for one call.
type TimingInfo struct {
	// StartTime is when the call started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is the time from the last connection phase to the first response byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from call start to completion
	TotalTime time.Duration
}

// Response is a Solr response with timing information.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       io.ReadCloser
	Timing     TimingInfo

	rawBody []byte
	parsed  bool
}

// GetBody returns the response body. The body is cached, so this method can
// be called multiple times.
func (r *Response) GetBody() ([]byte, error) {
	if r.parsed {
		return r.rawBody, nil
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.rawBody = body
	r.parsed = true

	return body, nil
}

// GetBodyAsJSON unmarshals the response body into v.
func (r *Response) GetBodyAsJSON(v interface{}) error {
	body, err := r.GetBody()
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// IsSuccess returns true if the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get returns the value at a gjson path in the response body, for example
// "facet_counts.facet_fields.category".
func (r *Response) Get(path string) gjson.Result {
	body, err := r.GetBody()
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(body, path)
}

// NumFound returns response.numFound, or 0 for responses without a result set.
func (r *Response) NumFound() int64 {
	return r.Get("response.numFound").Int()
}

// QTime returns the server-side query time in milliseconds as reported in
// the response header.
func (r *Response) QTime() int64 {
	return r.Get("responseHeader.QTime").Int()
}

// Docs returns the raw JSON of each returned document.
func (r *Response) Docs() []string {
	docs := r.Get("response.docs").Array()
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Raw)
	}
	return out
}

// Error is returned for calls that Solr answered with a non-2xx status.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func newError(method, path string, resp *Response) *Error {
	body, _ := resp.GetBody()
	msg := gjson.GetBytes(body, "error.msg").String()
	if msg == "" {
		msg = resp.Status
	}
	return &Error{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    msg,
		Body:       body,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("solr: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}
