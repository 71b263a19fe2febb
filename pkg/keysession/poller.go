package keysession

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/keywatch/keywatch-go/pkg/keystate"
)

// ErrPollerRunning is returned by Start when the poller is already running.
var ErrPollerRunning = errors.New("poller is already running")

// DefaultPollInterval is the polling interval used when none is configured.
const DefaultPollInterval = 50 * time.Millisecond

// PollerConfig holds poller configuration.
type PollerConfig struct {
	// Interval between two reads of the source.
	Interval time.Duration

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// DefaultPollerConfig returns the default poller configuration.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval: DefaultPollInterval,
	}
}

// snapshot is one observation of a Source.
type snapshot struct {
	present bool
	state   keystate.State
}

// Poller turns a Source without change notifications into a Session by
// reading it periodically and signalling observers when the sub-service
// presence or the key state differs from the previous read.
//
// Observers are signalled on the polling goroutine.
type Poller struct {
	mu sync.Mutex

	source   Source
	config   PollerConfig
	registry *Registry

	last    snapshot
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoller creates a poller for source with the default configuration.
func NewPoller(source Source) *Poller {
	return NewPollerWithConfig(source, DefaultPollerConfig())
}

// NewPollerWithConfig creates a poller for source.
func NewPollerWithConfig(source Source, config PollerConfig) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollInterval
	}
	return &Poller{
		source:   source,
		config:   config,
		registry: NewRegistry(),
	}
}

// FIDO2Service returns the source's FIDO2 sub-service.
func (p *Poller) FIDO2Service() FIDO2Service {
	return p.source.FIDO2Service()
}

// AddObserver registers obs for path under token.
func (p *Poller) AddObserver(obs Observer, token Token, path Path) error {
	return p.registry.Add(obs, token, path)
}

// RemoveObserver removes the registration for (token, path).
func (p *Poller) RemoveObserver(token Token, path Path) error {
	return p.registry.Remove(token, path)
}

// Observing reports whether an observer is registered under (token, path).
func (p *Poller) Observing(token Token, path Path) bool {
	return p.registry.Has(token, path)
}

// ObserverCount returns the number of active registrations.
func (p *Poller) ObserverCount() int {
	return p.registry.Count()
}

// Start takes an initial reading and begins polling until ctx is done or
// Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrPollerRunning
	}

	p.last = p.read()
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.pollLoop(ctx, p.done)

	return nil
}

// Stop halts polling and waits for the polling goroutine to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
}

// IsRunning returns whether the poller is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Poll reads the source once and signals observers if it changed. It is
// what the polling goroutine runs on every tick, and may be called directly.
func (p *Poller) Poll() {
	current := p.read()

	p.mu.Lock()
	previous := p.last
	p.last = current
	p.mu.Unlock()

	if current == previous {
		return
	}

	if logger := p.config.Logger; logger != nil {
		logger.Debug("key session change detected",
			"present", current.present,
			"state", current.state,
			"previousState", previous.state)
	}

	if current.present != previous.present {
		p.registry.Signal(PathFIDO2Service)
	}
	p.registry.Signal(PathFIDO2KeyState)
}

func (p *Poller) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll()
		}
	}
}

func (p *Poller) read() snapshot {
	svc := p.source.FIDO2Service()
	if svc == nil {
		return snapshot{state: keystate.Idle}
	}
	return snapshot{present: true, state: svc.KeyState()}
}

// Compile-time interface satisfaction check.
var _ Session = (*Poller)(nil)
