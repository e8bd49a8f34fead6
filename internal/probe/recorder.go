package probe

import (
	"sync"
	"time"
)

// CallRecord describes one intercepted Solr call.
type CallRecord struct {
	Elapsed time.Duration
	Method  string
	Path    string
	// Err is the error the call returned, nil on success.
	Err error
}

// Recorder is an append-only list of CallRecords in call order. It is safe
// for concurrent use by goroutines serving the same request.
type Recorder struct {
	mu      sync.Mutex
	records []CallRecord
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append adds rec after every record appended before it.
func (r *Recorder) Append(rec CallRecord) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
}

// Len returns the number of records not yet drained.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Drain returns every record in insertion order and empties the Recorder.
func (r *Recorder) Drain() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.records
	r.records = nil
	return out
}
