package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/keywatch/keywatch-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
// Times are RFC3339. An empty Output derives the file name from the input.
type FilterOptions struct {
	Output     string
	ObserverID string
	TimeStart  string
	TimeEnd    string
	Category   string
	Outcome    string
}

// logFilter validates the options and converts them to a reader filter.
func (o FilterOptions) logFilter() (log.Filter, error) {
	filter := log.Filter{ObserverID: o.ObserverID}

	var err error
	if filter.TimeStart, err = parseTimeBound("time-start", o.TimeStart); err != nil {
		return filter, err
	}
	if filter.TimeEnd, err = parseTimeBound("time-end", o.TimeEnd); err != nil {
		return filter, err
	}

	if o.Category != "" {
		c, err := parseCategory(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if o.Outcome != "" {
		oc, err := parseOutcome(o.Outcome)
		if err != nil {
			return filter, err
		}
		filter.Outcome = &oc
	}
	return filter, nil
}

func parseTimeBound(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", name, err)
	}
	return &t, nil
}

// FilteredName returns the default output file for filtering path.
func FilteredName(path string) string {
	return strings.TrimSuffix(path, log.FileExt) + ".filtered" + log.FileExt
}

// RunFilter copies the events of the log at path that match opts into a new
// log file and writes a one-line summary to w.
func RunFilter(path string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.logFilter()
	if err != nil {
		return err
	}
	if opts.Output == "" {
		opts.Output = FilteredName(path)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	out, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		out.Log(event)
	}
	if n := out.Errors(); n > 0 {
		return fmt.Errorf("failed to write %d events to %s", n, opts.Output)
	}

	fmt.Fprintf(w, "Filtered %d events to %s (%d read)\n", out.Written(), opts.Output, reader.Decoded())
	return nil
}
