// Command keywatch-log is a tool for viewing and analyzing keywatch event logs.
//
// Event logs are written by keywatch-sim with the --event-log flag, or by any
// program that installs a log.FileLogger as an observer's event logger.
//
// Usage:
//
//	keywatch-log <command> [flags] <file.kwlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	keywatch-log view sim.kwlog
//
//	# View only deliveries dropped because the delegate was collected
//	keywatch-log view --category delivery --outcome dropped-delegate sim.kwlog
//
//	# Export to CSV
//	keywatch-log export --format csv -o sim.csv sim.kwlog
//
//	# Keep only one observer's events
//	keywatch-log filter --observer 3f2b9c1a-... -o one.kwlog sim.kwlog
//
//	# Show statistics
//	keywatch-log stats sim.kwlog
package main

import (
	"fmt"
	"os"

	"github.com/keywatch/keywatch-go/cmd/keywatch-log/commands"
	flag "github.com/spf13/pflag"
)

const usage = `keywatch-log - keywatch Event Log Analyzer

Usage:
  keywatch-log <command> [flags] <file.kwlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "keywatch-log <command> --help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet returns a flag set for a subcommand with a usage header.
func newFlagSet(name, header string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, header)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	return fs
}

// logPath returns the single positional argument or exits.
func logPath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", `keywatch-log view - View log file in human-readable format

Usage:
  keywatch-log view [flags] <file.kwlog>
`)

	observerID := fs.String("observer", "", "Filter by observer token")
	category := fs.String("category", "", "Filter by category (subscription, signal, delivery, error)")
	outcome := fs.String("outcome", "", "Filter deliveries by outcome (delivered, dropped-closed, dropped-delegate)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	filter := commands.ViewFilter{ObserverID: *observerID}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if *outcome != "" {
		o, err := commands.ParseOutcomeFlag(*outcome)
		if err != nil {
			fail(err)
		}
		filter.Outcome = &o
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", `keywatch-log export - Export log file to JSONL or CSV format

Usage:
  keywatch-log export [flags] <file.kwlog>
`)

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", `keywatch-log filter - Filter log file and write to new file

Usage:
  keywatch-log filter [flags] <file.kwlog>
`)

	output := fs.StringP("output", "o", "", "Output file (default <file>.filtered.kwlog)")
	observerID := fs.String("observer", "", "Filter by observer token")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	category := fs.String("category", "", "Filter by category (subscription, signal, delivery, error)")
	outcome := fs.String("outcome", "", "Filter deliveries by outcome")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	opts := commands.FilterOptions{
		Output:     *output,
		ObserverID: *observerID,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
		Category:   *category,
		Outcome:    *outcome,
	}

	if err := commands.RunFilter(path, opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := newFlagSet("stats", `keywatch-log stats - Show statistics about the log file

Usage:
  keywatch-log stats <file.kwlog>
`)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
