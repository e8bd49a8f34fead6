package solr

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http/httptrace"
	"sync"
	"time"
)

// Sender dispatches one outbound call for a Client. It is the single entry
// point all Client operations go through.
type Sender interface {
	Send(ctx context.Context, c *Client, method, path string, req *Request) (*Response, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, c *Client, method, path string, req *Request) (*Response, error)

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, c *Client, method, path string, req *Request) (*Response, error) {
	return f(ctx, c, method, path, req)
}

// EntryPoint holds a swappable Sender.
type EntryPoint struct {
	mu     sync.RWMutex
	sender Sender
}

// NewEntryPoint returns an entry point dispatching to s, or to DefaultSender
// when s is nil.
func NewEntryPoint(s Sender) *EntryPoint {
	if s == nil {
		s = DefaultSender
	}
	return &EntryPoint{sender: s}
}

// Sender returns the current Sender.
func (e *EntryPoint) Sender() Sender {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sender
}

// Swap installs s and returns the Sender it replaced.
func (e *EntryPoint) Swap(s Sender) Sender {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.sender
	e.sender = s
	return prev
}

// Decorate replaces the current Sender with fn(current) in one step and
// returns the Sender it replaced.
func (e *EntryPoint) Decorate(fn func(current Sender) Sender) Sender {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.sender
	e.sender = fn(prev)
	return prev
}

// DefaultSender performs calls over HTTP using the Client's http.Client.
var DefaultSender Sender = httpSender{}

// Global is the process-wide entry point used by clients that were not given
// their own entry point or Sender.
var Global = NewEntryPoint(DefaultSender)

type httpSender struct{}

// Send executes the call and returns the response with detailed timing
// information. Non-2xx responses are returned as *Error.
func (httpSender) Send(ctx context.Context, c *Client, method, path string, req *Request) (*Response, error) {
	httpReq, err := req.build(c.baseURL, method, path)
	if err != nil {
		return nil, err
	}

	// Request headers win over client defaults
	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			dnsEnd := time.Now()
			timing.DNSLookupTime = dnsEnd.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = dnsEnd
		},
		ConnectStart: func(network, addr string) {
			if dnsDone {
				connectStart = time.Now()
			}
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil && !connectStart.IsZero() {
				connectEnd := time.Now()
				timing.TCPConnectTime = connectEnd.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = connectEnd
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				tlsHandshakeEnd := time.Now()
				timing.TLSHandshakeTime = tlsHandshakeEnd.Sub(tlsHandshakeStart)
				lastPhaseEnd = tlsHandshakeEnd
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}

	httpReq = httpReq.WithContext(httptrace.WithClientTrace(ctx, trace))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Timing:     timing,
		rawBody:    body,
		parsed:     true,
	}

	if !resp.IsSuccess() {
		return nil, newError(method, path, resp)
	}
	return resp, nil
}
