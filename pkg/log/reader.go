package log

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// ObserverID filters by exact observer ID match.
	ObserverID string

	// Category filters by event category.
	Category *Category

	// Outcome filters delivery events by outcome. Non-delivery events
	// never match a non-nil Outcome.
	Outcome *Outcome

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.ObserverID != "" && event.ObserverID != f.ObserverID {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.Outcome != nil && (event.Delivery == nil || event.Delivery.Outcome != *f.Outcome) {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// ErrTruncated is returned when a log ends in the middle of an event,
// typically because the writer was killed.
var ErrTruncated = errors.New("event log truncated")

// Reader decodes events from a .kwlog stream, skipping those its Filter
// rejects.
type Reader struct {
	src    io.Closer
	dec    *cbor.Decoder
	filter Filter
	read   int
}

// NewReader opens the log file at path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens the log file at path and yields only events
// matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewStreamReader(f, filter)
	r.src = f
	return r, nil
}

// NewStreamReader reads from r. Close does not close r.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{dec: NewDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the
// stream. A partial trailing event yields an error wrapping ErrTruncated.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.dec.Decode(&event)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return Event{}, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF):
			return Event{}, fmt.Errorf("%w after %d events", ErrTruncated, r.read)
		default:
			return Event{}, fmt.Errorf("decode event %d: %w", r.read+1, err)
		}

		r.read++
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Events iterates over the remaining matching events. A read error is
// yielded once, as the last pair.
func (r *Reader) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(event, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll returns the remaining matching events.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for event, err := range r.Events() {
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
	return events, nil
}

// Decoded returns the number of events decoded so far, matching or not.
func (r *Reader) Decoded() int {
	return r.read
}

// Close closes the file opened by NewReader or NewFilteredReader.
func (r *Reader) Close() error {
	if r.src == nil {
		return nil
	}
	return r.src.Close()
}
