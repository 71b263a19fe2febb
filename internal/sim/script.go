package sim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/keywatch/keywatch-go/pkg/keystate"
	"gopkg.in/yaml.v3"
)

// ErrInvalidStep is returned for a script step that does not name exactly
// one action.
var ErrInvalidStep = errors.New("invalid script step")

// Script is a keywatch-sim scenario file.
//
//	observers: 2
//	poll_interval: 20ms
//	steps:
//	  - state: busy
//	    after: 100ms
//	  - detach: true
//	  - subscribe: false
//	    observer: 1
type Script struct {
	// Observers overrides the number of observers, if positive.
	Observers int `yaml:"observers"`

	// QueueSize overrides the delivery queue size, if positive.
	QueueSize int `yaml:"queue_size"`

	// PollInterval makes observers watch through a poller, if positive.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`
}

// Step is one scripted action, run After the previous step.
type Step struct {
	After time.Duration `yaml:"after"`

	State     *keystate.State `yaml:"state"`
	Detach    bool            `yaml:"detach"`
	Attach    bool            `yaml:"attach"`
	Subscribe *bool           `yaml:"subscribe"`
	Release   bool            `yaml:"release"`
	Close     bool            `yaml:"close"`

	// Observer selects the observer for subscribe, release and close.
	Observer int `yaml:"observer"`
}

// actions returns the number of actions the step names.
func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.State != nil, s.Detach, s.Attach, s.Subscribe != nil, s.Release, s.Close} {
		if set {
			n++
		}
	}
	return n
}

// Validate checks that the step names exactly one action.
func (s Step) Validate() error {
	if n := s.actions(); n != 1 {
		return fmt.Errorf("%w: %d actions, want 1", ErrInvalidStep, n)
	}
	if s.After < 0 {
		return fmt.Errorf("%w: negative delay %s", ErrInvalidStep, s.After)
	}
	if s.Observer < 0 {
		return fmt.Errorf("%w: negative observer %d", ErrInvalidStep, s.Observer)
	}
	return nil
}

// String describes the step's action.
func (s Step) String() string {
	switch {
	case s.State != nil:
		return "state " + s.State.String()
	case s.Detach:
		return "detach"
	case s.Attach:
		return "attach"
	case s.Subscribe != nil && *s.Subscribe:
		return fmt.Sprintf("subscribe observer %d", s.Observer)
	case s.Subscribe != nil:
		return fmt.Sprintf("unsubscribe observer %d", s.Observer)
	case s.Release:
		return fmt.Sprintf("release observer %d", s.Observer)
	case s.Close:
		return fmt.Sprintf("close observer %d", s.Observer)
	default:
		return "noop"
	}
}

// ParseScript parses and validates a YAML script. Unknown keys are errors.
func ParseScript(data []byte) (*Script, error) {
	var script Script

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	for i, step := range script.Steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &script, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// Run applies the steps to s in order. It stops at the first failing step
// or when ctx is cancelled.
func Run(ctx context.Context, s *Simulator, steps []Step) error {
	for i, step := range steps {
		if step.After > 0 {
			timer := time.NewTimer(step.After)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if s.config.Logger != nil {
			s.config.Logger.Info("script step", "step", i+1, "action", step.String())
		}
		if err := apply(s, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
	}
	return nil
}

func apply(s *Simulator, step Step) error {
	switch {
	case step.State != nil:
		s.SetKeyState(*step.State)
	case step.Detach:
		s.Detach()
	case step.Attach:
		s.Attach()
	case step.Subscribe != nil:
		return s.SetSubscribed(step.Observer, *step.Subscribe)
	case step.Release:
		return s.Release(step.Observer)
	case step.Close:
		return s.CloseObserver(step.Observer)
	}
	return nil
}
