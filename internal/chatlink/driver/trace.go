package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// TraceEntry is one request/response record written when tracing is enabled.
type TraceEntry struct {
	Timestamp   time.Time       `json:"timestamp"`
	Provider    string          `json:"provider"`
	Endpoint    string          `json:"endpoint"`
	Method      string          `json:"method"`
	Model       string          `json:"model,omitempty"`
	RequestBody json.RawMessage `json:"request_body,omitempty"`
	StatusCode  int             `json:"status_code,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
	Error       string          `json:"error,omitempty"`
	DurationMs  int64           `json:"duration_ms"`
}

// Tracer appends trace entries to a file in NDJSON format.
type Tracer struct {
	file *os.File
	mu   sync.Mutex
}

var (
	globalTracer *Tracer
	tracerMu     sync.Mutex
)

// EnableTracing starts tracing to the given path. The returned cleanup
// function closes the file.
func EnableTracing(path string) (func(), error) {
	tracerMu.Lock()
	defer tracerMu.Unlock()

	if globalTracer != nil {
		_ = globalTracer.close()
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}

	globalTracer = &Tracer{file: f}
	return func() {
		tracerMu.Lock()
		defer tracerMu.Unlock()
		if globalTracer != nil {
			_ = globalTracer.close()
			globalTracer = nil
		}
	}, nil
}

// Trace records an entry when tracing is enabled; otherwise it is a no-op.
func Trace(entry TraceEntry) {
	tracerMu.Lock()
	tracer := globalTracer
	tracerMu.Unlock()
	if tracer == nil {
		return
	}
	tracer.write(entry)
}

func (t *Tracer) write(entry TraceEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.file.Write(append(line, '\n'))
}

func (t *Tracer) close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}
