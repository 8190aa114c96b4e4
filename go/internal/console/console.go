// Package console is a line-oriented terminal view of the turn table.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcdev12/turnclock/go/internal/intent"
	"github.com/mcdev12/turnclock/go/internal/turn"
	"github.com/rs/zerolog/log"
)

// ViewID is the keymap id of the console view.
const ViewID = "console"

const help = `commands:
  <enter>            end turn (the end-turn key)
  start              start the session
  end                end the current turn
  pause | resume     pause or resume the clock
  back               leave the session and return to editing
  add                add a player
  rm N               remove player N
  name N TEXT        rename player N
  order 2 1 3        reorder players
  show               print the table
  quit               exit
`

// Machine defines what the console needs from the turn machine
type Machine interface {
	Dispatch(ctx context.Context, in intent.Intent) (turn.State, error)
	State(ctx context.Context) (turn.State, error)
}

// Console reads commands from in and renders the table to out.
type Console struct {
	machine Machine
	keymap  *intent.Keymap
	in      io.Reader
	out     io.Writer
}

// New creates a console view.
func New(machine Machine, keymap *intent.Keymap, in io.Reader, out io.Writer) *Console {
	return &Console{machine: machine, keymap: keymap, in: in, out: out}
}

var errQuit = errors.New("quit")

// Run serves commands until quit, end of input or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	if !c.keymap.Bind(ViewID) {
		return fmt.Errorf("console view is already mounted")
	}
	defer c.keymap.Unbind(ViewID)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprint(c.out, help)
	if err := c.show(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read console input: %w", err)
					}
				default:
				}
				return nil
			}
			if err := c.handleLine(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
		}
	}
}

func (c *Console) handleLine(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		// A blank line is the end-turn key.
		in, ok := c.keymap.Translate(ViewID, c.keymap.Key())
		if !ok {
			return nil
		}
		return c.dispatch(ctx, in)
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprint(c.out, help)
		return nil
	case "show":
		return c.show(ctx)
	}

	state, err := c.machine.State(ctx)
	if err != nil {
		return err
	}
	in, err := parseCommand(fields, line, state)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return nil
	}
	return c.dispatch(ctx, in)
}

func (c *Console) dispatch(ctx context.Context, in intent.Intent) error {
	state, err := c.machine.Dispatch(ctx, in)
	if errors.Is(err, turn.ErrStopped) {
		return err
	}
	if err != nil {
		log.Debug().Err(err).Str("intent", string(in.Kind())).Msg("console intent rejected")
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	Render(c.out, state)
	return nil
}

func (c *Console) show(ctx context.Context) error {
	state, err := c.machine.State(ctx)
	if err != nil {
		return err
	}
	Render(c.out, state)
	return nil
}

// parseCommand maps a command line to an intent. Player numbers are
// 1-based positions in the current roster.
func parseCommand(fields []string, line string, state turn.State) (intent.Intent, error) {
	switch strings.ToLower(fields[0]) {
	case "start":
		return intent.Start{}, nil
	case "end", "next":
		return intent.EndTurn{}, nil
	case "pause":
		return intent.Pause{}, nil
	case "resume":
		return intent.Resume{}, nil
	case "back":
		return intent.Back{}, nil
	case "add":
		return intent.AddPlayer{}, nil
	case "rm", "remove":
		if len(fields) != 2 {
			return nil, errors.New("usage: rm N")
		}
		id, err := playerID(fields[1], state)
		if err != nil {
			return nil, err
		}
		return intent.RemovePlayer{ID: id}, nil
	case "name":
		if len(fields) < 2 {
			return nil, errors.New("usage: name N TEXT")
		}
		id, err := playerID(fields[1], state)
		if err != nil {
			return nil, err
		}
		// Keep the name as typed, inner spacing included.
		rest := strings.TrimSpace(line)
		rest = strings.TrimSpace(rest[len(fields[0]):])
		rest = strings.TrimSpace(rest[len(fields[1]):])
		return intent.RenamePlayer{ID: id, Name: rest}, nil
	case "order":
		if len(fields) < 2 {
			return nil, errors.New("usage: order 2 1 3")
		}
		order := make([]string, 0, len(fields)-1)
		for _, f := range fields[1:] {
			id, err := playerID(f, state)
			if err != nil {
				return nil, err
			}
			order = append(order, id)
		}
		return intent.ReorderPlayers{Order: order}, nil
	default:
		return nil, fmt.Errorf("unknown command %q, type help", fields[0])
	}
}

func playerID(s string, state turn.State) (string, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > len(state.Players) {
		return "", fmt.Errorf("no player %s", s)
	}
	return state.Players[n-1].ID, nil
}
