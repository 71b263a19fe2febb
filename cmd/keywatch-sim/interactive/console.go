// Package interactive provides the interactive command-line interface
// for keywatch-sim.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/keywatch/keywatch-go/internal/sim"
	"github.com/keywatch/keywatch-go/pkg/keystate"
)

// Console handles interactive mode for keywatch-sim.
type Console struct {
	sim *sim.Simulator
	rl  *readline.Instance
}

// New creates a console. Bind must be called before Run.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "keywatch> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl}, nil
}

// Bind attaches the simulator the console controls and routes its
// delivery output through the console.
func (c *Console) Bind(s *sim.Simulator) {
	c.sim = s
	s.SetOutput(c.rl.Stdout())
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	printHelp(c.rl.Stdout())

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		if !Execute(c.sim, c.rl.Stdout(), line) {
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line against s and writes its output to w.
// It returns false when the command asks to exit.
func Execute(s *sim.Simulator, w io.Writer, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		printHelp(w)

	case "idle", "busy", "touch":
		state, _ := keystate.Parse(cmd)
		s.SetKeyState(state)

	case "state":
		cmdState(s, w, args)

	case "detach":
		s.Detach()

	case "attach":
		s.Attach()

	case "sub", "unsub":
		cmdSubscribe(s, w, args, cmd == "sub")

	case "add":
		id, err := s.AddObserver()
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return true
		}
		fmt.Fprintf(w, "Added observer %d\n", id)

	case "release":
		withObserver(w, args, s.Release, "Released delegate of observer")

	case "close":
		withObserver(w, args, s.CloseObserver, "Closed observer")

	case "status", "s":
		cmdStatus(s, w)

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `
keywatch Simulator Commands:
  Key session:
    idle | busy | touch  - Set the FIDO2 key state
    state <name>         - Set the key state by name (e.g. TOUCH_KEY)
    detach               - Remove the FIDO2 sub-service
    attach               - Restore the FIDO2 sub-service

  Observers:
    add                  - Create a new subscribed observer
    sub <id>             - Subscribe an observer
    unsub <id>           - Unsubscribe an observer
    release <id>         - Drop an observer's delegate (later deliveries are dropped)
    close <id>           - Close an observer
    status               - Show observer status

  General:
    help                 - Show this help
    quit                 - Exit simulator`)
}

func cmdState(s *sim.Simulator, w io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(w, "Usage: state <idle|busy|touch>")
		return
	}
	state, err := keystate.Parse(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	s.SetKeyState(state)
}

func cmdSubscribe(s *sim.Simulator, w io.Writer, args []string, subscribed bool) {
	id, ok := parseID(w, args)
	if !ok {
		return
	}
	if err := s.SetSubscribed(id, subscribed); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if subscribed {
		fmt.Fprintf(w, "Observer %d subscribed\n", id)
	} else {
		fmt.Fprintf(w, "Observer %d unsubscribed\n", id)
	}
}

func withObserver(w io.Writer, args []string, fn func(int) error, done string) {
	id, ok := parseID(w, args)
	if !ok {
		return
	}
	if err := fn(id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%s %d\n", done, id)
}

func parseID(w io.Writer, args []string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintln(w, "Usage: <command> <observer-id>")
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(w, "Invalid observer ID: %s\n", args[0])
		return 0, false
	}
	return id, true
}

func cmdStatus(s *sim.Simulator, w io.Writer) {
	svc := s.Session().FIDO2Service()
	if svc == nil {
		fmt.Fprintln(w, "FIDO2 service: absent")
	} else {
		fmt.Fprintf(w, "FIDO2 service: present, key state %s\n", svc.KeyState())
	}
	if s.Polling() {
		fmt.Fprintln(w, "Observation: polling")
	}

	status := s.Status()
	fmt.Fprintf(w, "Observers: %d\n", len(status))
	for _, st := range status {
		flags := []string{}
		if st.Subscribed {
			flags = append(flags, "subscribed")
		}
		if st.Subscribed != st.Registered {
			flags = append(flags, "session-mismatch")
		}
		if st.Closed {
			flags = append(flags, "closed")
		}
		if st.Released {
			flags = append(flags, "released")
		}
		fmt.Fprintf(w, "  [%d] %s %s\n", st.ID, st.Token.String()[:8], strings.Join(flags, ","))
		fmt.Fprintf(w, "      received %d (last %s), signals %d, foreign %d, dropped %d closed / %d delegate\n",
			st.Received, st.Last, st.Stats.Signals, st.Stats.Foreign,
			st.Stats.DroppedClosed, st.Stats.DroppedDelegate)
	}
}
