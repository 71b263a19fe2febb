// Command keywatch-sim simulates a hardware key session and observes its
// FIDO2 key state through one or more observers.
//
// Without --interactive the simulator runs the steps of a YAML script and
// exits once every delivery has settled. With --interactive it opens a
// console for changing the key state and managing observers by hand.
//
// Usage:
//
//	keywatch-sim [flags]
//
// Flags:
//
//	-c, --config string          YAML script file
//	-i, --interactive            Start the interactive console
//	    --event-log string       Write CBOR observer events to this file
//	    --log-level string       Log level: debug, info, warn, error (default "info")
//	    --observers int          Number of observers (default 1)
//	    --poll-interval duration Observe through a poller with this interval
//	    --queue-size int         Delivery queue size per observer (default 16)
//
// Every flag can also be set through a KEYWATCH_SIM_* environment variable,
// for example KEYWATCH_SIM_LOG_LEVEL=debug. Flags win over the script,
// and the script wins over the environment.
//
// Examples:
//
//	# Run a scenario and record the events
//	keywatch-sim -c scenario.yaml --event-log sim.kwlog
//
//	# Poke at two polled observers by hand
//	keywatch-sim -i --observers 2 --poll-interval 50ms
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keywatch/keywatch-go/cmd/keywatch-sim/interactive"
	"github.com/keywatch/keywatch-go/internal/config"
	"github.com/keywatch/keywatch-go/internal/sim"
	"github.com/keywatch/keywatch-go/pkg/log"
	"github.com/keywatch/keywatch-go/pkg/observer"
	flag "github.com/spf13/pflag"
)

// settleTimeout bounds the wait for pending deliveries before exit.
const settleTimeout = 2 * time.Second

// settings holds the command configuration.
type settings struct {
	ConfigFile   string        `env:"KEYWATCH_SIM_CONFIG"`
	Interactive  bool          `env:"KEYWATCH_SIM_INTERACTIVE"`
	EventLog     string        `env:"KEYWATCH_SIM_EVENT_LOG"`
	LogLevel     string        `env:"KEYWATCH_SIM_LOG_LEVEL" envDefault:"info"`
	Observers    int           `env:"KEYWATCH_SIM_OBSERVERS" envDefault:"1"`
	PollInterval time.Duration `env:"KEYWATCH_SIM_POLL_INTERVAL"`
	QueueSize    int           `env:"KEYWATCH_SIM_QUEUE_SIZE" envDefault:"16"`

	level   slog.Level
	changed map[string]bool
}

// parseSettings reads the environment, then args.
func parseSettings(args []string) (settings, error) {
	var s settings
	if err := config.ParseEnv(&s); err != nil {
		return s, err
	}

	fs := flag.NewFlagSet("keywatch-sim", flag.ContinueOnError)
	fs.StringVarP(&s.ConfigFile, "config", "c", s.ConfigFile, "YAML script file")
	fs.BoolVarP(&s.Interactive, "interactive", "i", s.Interactive, "Start the interactive console")
	fs.StringVar(&s.EventLog, "event-log", s.EventLog, "Write CBOR observer events to this file")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "Log level: debug, info, warn, error")
	fs.IntVar(&s.Observers, "observers", s.Observers, "Number of observers")
	fs.DurationVar(&s.PollInterval, "poll-interval", s.PollInterval, "Observe through a poller with this interval")
	fs.IntVar(&s.QueueSize, "queue-size", s.QueueSize, "Delivery queue size per observer")

	if err := fs.Parse(args); err != nil {
		return s, err
	}

	s.changed = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { s.changed[f.Name] = true })

	if err := s.level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return s, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return s, s.validate()
}

func (s *settings) validate() error {
	if s.Observers < 0 {
		return fmt.Errorf("observers must be >= 0, got %d", s.Observers)
	}
	if s.PollInterval < 0 {
		return fmt.Errorf("poll interval must be >= 0, got %s", s.PollInterval)
	}
	return nil
}

// applyScript takes script values for settings not given as flags.
func (s *settings) applyScript(script *sim.Script) {
	if script.Observers > 0 && !s.changed["observers"] {
		s.Observers = script.Observers
	}
	if script.QueueSize > 0 && !s.changed["queue-size"] {
		s.QueueSize = script.QueueSize
	}
	if script.PollInterval > 0 && !s.changed["poll-interval"] {
		s.PollInterval = script.PollInterval
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	s, err := parseSettings(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		config.Exitf("Error: %v", err)
	}

	var script *sim.Script
	if s.ConfigFile != "" {
		script, err = sim.LoadScript(s.ConfigFile)
		if err != nil {
			config.Exitf("Error: load script: %v", err)
		}
		s.applyScript(script)
	}
	if script == nil && !s.Interactive {
		config.Exitf("Error: nothing to do (use --config or --interactive)")
	}

	var console *interactive.Console
	logOut := io.Writer(os.Stderr)
	if s.Interactive {
		console, err = interactive.New()
		if err != nil {
			config.Exitf("Error: %v", err)
		}
		logOut = console.Stderr()
	}
	logger := newLogger(logOut, s.level)

	simCfg := sim.DefaultConfig()
	simCfg.Observers = s.Observers
	simCfg.QueueSize = s.QueueSize
	simCfg.PollInterval = s.PollInterval
	simCfg.Logger = logger

	// Events go to the file and, at debug level, to the operational log.
	var events []log.Logger
	if s.EventLog != "" {
		fileLogger, err := log.NewFileLogger(s.EventLog)
		if err != nil {
			config.Exitf("Error: %v", err)
		}
		defer func() {
			if n := fileLogger.Errors(); n > 0 {
				logger.Warn("event log write errors", "count", n)
			}
			logger.Info("event log closed", "path", s.EventLog, "events", fileLogger.Written())
			fileLogger.Close()
		}()
		events = append(events, fileLogger)
	}
	if s.level <= slog.LevelDebug {
		events = append(events, log.NewSlogAdapter(logger))
	}
	if len(events) > 0 {
		simCfg.EventLogger = log.NewMultiLogger(events...)
	}

	simulator, err := sim.New(simCfg)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := simulator.Start(ctx); err != nil {
		config.Exitf("Error: %v", err)
	}

	logger.Info("keywatch simulator started",
		"observers", s.Observers,
		"queueSize", s.QueueSize,
		"pollInterval", s.PollInterval,
		"defaultQueueSize", observer.DefaultQueueSize)

	if s.Interactive {
		console.Bind(simulator)
		if script != nil {
			go func() {
				if err := sim.Run(ctx, simulator, script.Steps); err != nil && ctx.Err() == nil {
					logger.Error("script failed", "error", err)
				}
			}()
		}
		console.Run(ctx, cancel)
	} else if err := sim.Run(ctx, simulator, script.Steps); err != nil && ctx.Err() == nil {
		logger.Error("script failed", "error", err)
	}

	if !simulator.Settle(settleTimeout) {
		logger.Warn("deliveries still pending at exit")
	}
	simulator.Close()
	logger.Info("keywatch simulator stopped")
}
