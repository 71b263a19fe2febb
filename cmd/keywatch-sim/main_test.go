package main

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/keywatch/keywatch-go/internal/sim"
	flag "github.com/spf13/pflag"
)

func TestParseSettingsDefaults(t *testing.T) {
	s, err := parseSettings(nil)
	if err != nil {
		t.Fatalf("parseSettings: %v", err)
	}
	if s.Observers != 1 || s.QueueSize != 16 || s.PollInterval != 0 {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.level != slog.LevelInfo {
		t.Errorf("expected info level, got %s", s.level)
	}
	if s.Interactive || s.ConfigFile != "" || s.EventLog != "" {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestParseSettingsFlags(t *testing.T) {
	s, err := parseSettings([]string{
		"-c", "scenario.yaml",
		"-i",
		"--event-log", "sim.kwlog",
		"--log-level", "debug",
		"--observers", "3",
		"--poll-interval", "50ms",
		"--queue-size", "4",
	})
	if err != nil {
		t.Fatalf("parseSettings: %v", err)
	}
	if s.ConfigFile != "scenario.yaml" || !s.Interactive || s.EventLog != "sim.kwlog" {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.level != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", s.level)
	}
	if s.Observers != 3 || s.PollInterval != 50*time.Millisecond || s.QueueSize != 4 {
		t.Errorf("unexpected settings: %+v", s)
	}
	for _, name := range []string{"config", "interactive", "observers", "poll-interval", "queue-size"} {
		if !s.changed[name] {
			t.Errorf("expected flag %q to be marked as changed", name)
		}
	}
}

func TestParseSettingsEnvironment(t *testing.T) {
	t.Setenv("KEYWATCH_SIM_OBSERVERS", "5")
	t.Setenv("KEYWATCH_SIM_LOG_LEVEL", "warn")
	t.Setenv("KEYWATCH_SIM_POLL_INTERVAL", "10ms")

	s, err := parseSettings([]string{"--observers", "2"})
	if err != nil {
		t.Fatalf("parseSettings: %v", err)
	}
	if s.Observers != 2 {
		t.Errorf("flag should override environment, got %d observers", s.Observers)
	}
	if s.level != slog.LevelWarn {
		t.Errorf("expected warn level, got %s", s.level)
	}
	if s.PollInterval != 10*time.Millisecond {
		t.Errorf("expected poll interval from environment, got %s", s.PollInterval)
	}
	if s.changed["poll-interval"] {
		t.Error("environment value must not count as a changed flag")
	}
}

func TestParseSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad level", []string{"--log-level", "loud"}},
		{"negative observers", []string{"--observers", "-1"}},
		{"negative poll interval", []string{"--poll-interval", "-5ms"}},
		{"unknown flag", []string{"--bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSettings(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseSettingsBadEnvironment(t *testing.T) {
	t.Setenv("KEYWATCH_SIM_QUEUE_SIZE", "many")
	if _, err := parseSettings(nil); err == nil {
		t.Error("expected error")
	}
}

func TestApplyScript(t *testing.T) {
	script := &sim.Script{Observers: 4, QueueSize: 8, PollInterval: 20 * time.Millisecond}

	s, err := parseSettings([]string{"--observers", "2"})
	if err != nil {
		t.Fatalf("parseSettings: %v", err)
	}
	s.applyScript(script)

	if s.Observers != 2 {
		t.Errorf("explicit flag should win over script, got %d observers", s.Observers)
	}
	if s.QueueSize != 8 {
		t.Errorf("expected queue size from script, got %d", s.QueueSize)
	}
	if s.PollInterval != 20*time.Millisecond {
		t.Errorf("expected poll interval from script, got %s", s.PollInterval)
	}
}

func TestApplyScriptZeroValuesKeepSettings(t *testing.T) {
	s, err := parseSettings(nil)
	if err != nil {
		t.Fatalf("parseSettings: %v", err)
	}
	s.applyScript(&sim.Script{})

	if s.Observers != 1 || s.QueueSize != 16 || s.PollInterval != 0 {
		t.Errorf("empty script changed settings: %+v", s)
	}
}

func TestParseSettingsHelp(t *testing.T) {
	_, err := parseSettings([]string{"--help"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}
