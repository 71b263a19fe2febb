package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileExt is the conventional extension of event log files.
const FileExt = ".kwlog"

// FileLogger appends events to a stream as a CBOR sequence. Any number of
// bridges may share one FileLogger.
type FileLogger struct {
	mu      sync.Mutex
	out     io.WriteCloser
	enc     *cbor.Encoder
	written int
	failed  int
	done    bool
}

// NewFileLogger opens path for appending, creating it with mode 0644 if
// needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return NewStreamLogger(f), nil
}

// NewStreamLogger writes events to out. Close closes out.
func NewStreamLogger(out io.WriteCloser) *FileLogger {
	return &FileLogger{out: out, enc: NewEncoder(out)}
}

// Log appends event. Failures are counted, never returned, so a broken
// log never holds up a delivery.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.done:
	case l.enc.Encode(event) != nil:
		l.failed++
	default:
		l.written++
	}
}

// Written returns the number of events appended so far.
func (l *FileLogger) Written() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

// Errors returns the number of events that could not be written.
func (l *FileLogger) Errors() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failed
}

// Close closes the underlying stream. Later events are discarded.
// Close is idempotent.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return nil
	}
	l.done = true
	return l.out.Close()
}

var _ Logger = (*FileLogger)(nil)
