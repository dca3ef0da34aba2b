package metrics

import (
	"fmt"
	"sync"
	"time"
)

// Record is the immutable outcome of one completed dispatch.
type Record struct {
	Timestamp    time.Time     `json:"timestamp"`
	StartTime    time.Time     `json:"start_time"`
	PlayerID     string        `json:"player_id"`
	ServerID     int           `json:"server_id"`
	ResponseTime time.Duration `json:"response_time"`
}

// WriteError reports a failed sink append. The driver treats it as fatal
// for the remaining run since metrics integrity can no longer be guaranteed.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("metrics sink write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Sink is a thread-safe append-only log of dispatch records. Records are
// appended in completion order, which may differ from submission order.
type Sink struct {
	mutex   sync.Mutex
	records []Record
	closed  bool
}

func NewSink() *Sink {
	return &Sink{
		records: make([]Record, 0),
	}
}

// Append adds one record to the sink. Appending to a closed sink fails
// with a *WriteError; already-appended records remain valid.
func (s *Sink) Append(record Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return &WriteError{Err: fmt.Errorf("sink is closed")}
	}

	s.records = append(s.records, record)
	return nil
}

// Drain returns a copy of all records in append order. Draining twice
// without new appends returns identical sequences.
func (s *Sink) Drain() []Record {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	records := make([]Record, len(s.records))
	copy(records, s.records)
	return records
}

// Len returns the number of records currently in the sink.
func (s *Sink) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.records)
}

// Close marks the sink closed. Subsequent appends fail; drained records
// are unaffected.
func (s *Sink) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.closed = true
	return nil
}
