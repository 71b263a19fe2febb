package observer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/keywatch/keywatch-go/pkg/dispatch"
	"github.com/keywatch/keywatch-go/pkg/keysession"
	"github.com/keywatch/keywatch-go/pkg/log"
)

// registration owns the subscription flag of a Bridge and everything needed
// to tear it down. It never references the Bridge, so it can be handed to
// the garbage-collection cleanup of the Bridge.
type registration struct {
	mu sync.Mutex

	subscribed bool
	closed     bool

	session  keysession.Session
	token    keysession.Token
	observer keysession.Observer

	// queue is the bridge's own delivery queue, nil with a configured executor.
	queue *dispatch.Queue

	logger *slog.Logger
	events log.Logger
}

// set is the only mutator of the subscription flag. Setting the current
// value is a no-op, so the session never sees a second AddObserver or
// RemoveObserver for the same registration.
func (r *registration) set(subscribed bool, reason log.Reason) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if subscribed == r.subscribed {
		return nil
	}
	if subscribed && r.closed {
		return ErrClosed
	}

	var err error
	if subscribed {
		err = r.session.AddObserver(r.observer, r.token, keysession.PathFIDO2KeyState)
	} else {
		err = r.session.RemoveObserver(r.token, keysession.PathFIDO2KeyState)
	}
	if err != nil {
		op := "RemoveObserver"
		if subscribed {
			op = "AddObserver"
		}
		r.logError(op, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	r.subscribed = subscribed

	if r.logger != nil {
		r.logger.Debug("subscription changed",
			"token", r.token,
			"subscribed", subscribed,
			"reason", reason)
	}
	if r.events != nil {
		r.events.Log(log.Event{
			Timestamp:  time.Now(),
			ObserverID: r.token.String(),
			Category:   log.CategorySubscription,
			Path:       keysession.PathFIDO2KeyState.String(),
			Subscription: &log.SubscriptionEvent{
				Subscribed: subscribed,
				Reason:     reason,
			},
		})
	}
	return nil
}

// close marks the registration terminal and unsubscribes. It may be called
// again after a failed RemoveObserver; once unsubscribed it only stops the
// queue, which is idempotent.
func (r *registration) close(reason log.Reason) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	err := r.set(false, reason)
	if r.queue != nil {
		r.queue.Stop()
	}
	return err
}

// isSubscribed returns the subscription flag.
func (r *registration) isSubscribed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscribed
}

func (r *registration) logError(op string, err error) {
	if r.logger != nil {
		r.logger.Warn("subscription change failed",
			"token", r.token,
			"op", op,
			"error", err)
	}
	if r.events != nil {
		r.events.Log(log.Event{
			Timestamp:  time.Now(),
			ObserverID: r.token.String(),
			Category:   log.CategoryError,
			Path:       keysession.PathFIDO2KeyState.String(),
			Error: &log.ErrorEventData{
				Message: err.Error(),
				Context: op,
			},
		})
	}
}

// cleanupRegistration runs when a Bridge that was never closed is garbage
// collected.
func cleanupRegistration(r *registration) {
	_ = r.close(log.ReasonCleanup)
}
