package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/keywatch/keywatch-go/pkg/keystate"
	"github.com/keywatch/keywatch-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Outcomes         map[log.Outcome]int
	States           map[keystate.State]int
	Observers        map[string]*ObserverStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// ObserverStats holds statistics for a single observer.
type ObserverStats struct {
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	Signals      int
	Foreign      int
	Delivered    int
	Dropped      int
	Subscribed   bool
	MaxLatency   time.Duration
	TotalLatency time.Duration
}

// MeanLatency returns the mean latency of delivered notifications.
func (s *ObserverStats) MeanLatency() time.Duration {
	if s.Delivered == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.Delivered)
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func newStats() *Stats {
	return &Stats{
		EventsByCategory: make(map[log.Category]int),
		Outcomes:         make(map[log.Outcome]int),
		States:           make(map[keystate.State]int),
		Observers:        make(map[string]*ObserverStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	obs, ok := s.Observers[event.ObserverID]
	if !ok {
		obs = &ObserverStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Observers[event.ObserverID] = obs
	}
	obs.Events++
	if event.Timestamp.After(obs.LastSeen) {
		obs.LastSeen = event.Timestamp
	}

	switch {
	case event.Subscription != nil:
		obs.Subscribed = event.Subscription.Subscribed
	case event.Signal != nil:
		if event.Signal.Foreign {
			obs.Foreign++
		} else {
			obs.Signals++
		}
	case event.Delivery != nil:
		s.Outcomes[event.Delivery.Outcome]++
		if event.Delivery.Outcome != log.OutcomeDelivered {
			obs.Dropped++
			break
		}
		s.States[event.Delivery.State]++
		obs.Delivered++
		obs.TotalLatency += event.Delivery.Latency
		if event.Delivery.Latency > obs.MaxLatency {
			obs.MaxLatency = event.Delivery.Latency
		}
	case event.Error != nil:
		s.Errors++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== keywatch Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategorySubscription, log.CategorySignal, log.CategoryDelivery, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Delivery Outcomes:")
	for _, o := range []log.Outcome{log.OutcomeDelivered, log.OutcomeDroppedClosed, log.OutcomeDroppedDelegate} {
		if count := stats.Outcomes[o]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", o.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Delivered States:")
	for _, st := range []keystate.State{keystate.Idle, keystate.ProcessingRequest, keystate.TouchKey} {
		if count := stats.States[st]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", st.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Observers: %d\n", len(stats.Observers))
	if len(stats.Observers) > 0 {
		type obsInfo struct {
			id    string
			stats *ObserverStats
		}
		observers := make([]obsInfo, 0, len(stats.Observers))
		for id, st := range stats.Observers {
			observers = append(observers, obsInfo{id, st})
		}
		sort.Slice(observers, func(i, j int) bool {
			return observers[i].stats.FirstSeen.Before(observers[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, o := range observers {
			duration := o.stats.LastSeen.Sub(o.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(o.id), o.stats.Events, duration)
			fmt.Fprintf(w, "           Signals: %d (foreign: %d)\n", o.stats.Signals, o.stats.Foreign)
			fmt.Fprintf(w, "           Delivered: %d, dropped: %d\n", o.stats.Delivered, o.stats.Dropped)
			if o.stats.Delivered > 0 {
				fmt.Fprintf(w, "           Latency: mean %s, max %s\n",
					formatDuration(o.stats.MeanLatency()), formatDuration(o.stats.MaxLatency))
			}
			if o.stats.Subscribed {
				fmt.Fprintln(w, "           Still subscribed")
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
