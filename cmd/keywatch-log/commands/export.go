package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/keywatch/keywatch-go/pkg/log"
)

// csvHeader names the columns written by the csv exporter.
var csvHeader = []string{"timestamp", "observer_id", "category", "path", "detail", "state", "latency_ns"}

type exporter func(events *log.Reader, w io.Writer) error

var exporters = map[string]exporter{
	"jsonl": exportJSONL,
	"csv":   exportCSV,
}

// ExportFormats lists the supported export formats.
func ExportFormats() []string {
	formats := make([]string, 0, len(exporters))
	for name := range exporters {
		formats = append(formats, name)
	}
	slices.Sort(formats)
	return formats
}

// RunExport converts the log at path to format and writes it to output,
// or to stdout if output is empty.
func RunExport(path, format, output string) error {
	export, ok := exporters[format]
	if !ok {
		return fmt.Errorf("unknown format: %s (supported: %v)", format, ExportFormats())
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if output == "" {
		return export(reader, os.Stdout)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export(reader, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportJSONL(events *log.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	for event, err := range events.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(events *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for event, err := range events.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := cw.Write(csvRow(event)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// csvRow flattens event into the csvHeader columns.
func csvRow(event log.Event) []string {
	var detail, state, latency string

	switch {
	case event.Subscription != nil:
		sub := event.Subscription
		detail = "unsubscribed/" + sub.Reason.String()
		if sub.Subscribed {
			detail = "subscribed/" + sub.Reason.String()
		}
	case event.Signal != nil:
		detail = "own"
		if event.Signal.Foreign {
			detail = "foreign"
		}
	case event.Delivery != nil:
		d := event.Delivery
		detail = d.Outcome.String()
		if d.Outcome == log.OutcomeDelivered {
			state = d.State.String()
		}
		latency = strconv.FormatInt(d.Latency.Nanoseconds(), 10)
	case event.Error != nil:
		detail = event.Error.Message
	}

	return []string{
		event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		event.ObserverID,
		event.Category.String(),
		event.Path,
		detail,
		state,
		latency,
	}
}
