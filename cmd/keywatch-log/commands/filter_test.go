package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/keywatch/keywatch-go/pkg/log"
)

func TestFilterByOutcome(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	events := append(lifecycleEvents(ts), log.Event{
		Timestamp:  ts.Add(time.Second),
		ObserverID: testObserver,
		Category:   log.CategoryDelivery,
		Delivery:   &log.DeliveryEvent{Outcome: log.OutcomeDroppedClosed},
	})
	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.kwlog")

	var buf bytes.Buffer
	err := RunFilter(path, FilterOptions{Output: outPath, Outcome: "dropped-closed"}, &buf)
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Filtered 1 events") {
		t.Errorf("unexpected summary: %s", buf.String())
	}

	reader, err := log.NewReader(outPath)
	if err != nil {
		t.Fatalf("failed to open filtered log: %v", err)
	}
	defer reader.Close()

	filtered, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Delivery.Outcome != log.OutcomeDroppedClosed {
		t.Errorf("unexpected filtered events: %+v", filtered)
	}
}

func TestFilterByTimeRange(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategorySignal, Signal: &log.SignalEvent{}},
		{Timestamp: ts.Add(time.Hour), Category: log.CategorySignal, Signal: &log.SignalEvent{}},
		{Timestamp: ts.Add(2 * time.Hour), Category: log.CategorySignal, Signal: &log.SignalEvent{}},
	}
	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.kwlog")

	opts := FilterOptions{
		Output:    outPath,
		TimeStart: ts.Add(30 * time.Minute).Format(time.RFC3339),
		TimeEnd:   ts.Add(90 * time.Minute).Format(time.RFC3339),
	}
	var buf bytes.Buffer
	if err := RunFilter(path, opts, &buf); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Filtered 1 events") {
		t.Errorf("unexpected summary: %s", buf.String())
	}
}

func TestFilterInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, nil)
	outPath := filepath.Join(t.TempDir(), "filtered.kwlog")

	cases := []FilterOptions{
		{Output: outPath, TimeStart: "yesterday"},
		{Output: outPath, TimeEnd: "tomorrow"},
		{Output: outPath, Category: "frame"},
		{Output: outPath, Outcome: "lost"},
	}
	for _, opts := range cases {
		var buf bytes.Buffer
		if err := RunFilter(path, opts, &buf); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestFilterDefaultOutput(t *testing.T) {
	ts := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	path := createTestLogFile(t, lifecycleEvents(ts))

	var buf bytes.Buffer
	if err := RunFilter(path, FilterOptions{Category: "signal"}, &buf); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	want := FilteredName(path)
	if !strings.HasSuffix(want, ".filtered.kwlog") {
		t.Errorf("unexpected default output name %s", want)
	}
	if !strings.Contains(buf.String(), want) {
		t.Errorf("summary does not name %s: %s", want, buf.String())
	}
	if !strings.Contains(buf.String(), "(4 read)") {
		t.Errorf("expected 4 events read, got: %s", buf.String())
	}

	reader, err := log.NewReader(want)
	if err != nil {
		t.Fatalf("failed to open filtered log: %v", err)
	}
	defer reader.Close()
	filtered, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	for _, e := range filtered {
		if e.Category != log.CategorySignal {
			t.Errorf("unexpected category %s in filtered log", e.Category)
		}
	}
}
