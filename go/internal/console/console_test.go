package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/turnclock/go/internal/intent"
	"github.com/mcdev12/turnclock/go/internal/models"
	"github.com/mcdev12/turnclock/go/internal/roster"
	"github.com/mcdev12/turnclock/go/internal/storage"
	"github.com/mcdev12/turnclock/go/internal/turn"
)

func newMachine(t *testing.T, names ...string) *turn.Machine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	store := storage.NewMemoryStore()
	players := make(models.Roster, len(names))
	for i, n := range names {
		players[i] = models.Player{ID: "p" + string(rune('1'+i)), Name: n}
	}
	if err := roster.NewRepository(store).SaveRoster(ctx, players); err != nil {
		t.Fatal(err)
	}
	app := roster.NewApp(roster.NewRepository(store), roster.Options{})
	m := turn.NewMachine(app, turn.NewRepository(store), turn.Options{Clock: clockwork.NewFakeClock()})
	go m.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-m.Done()
	})
	return m
}

func runScript(t *testing.T, m *turn.Machine, script string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(m, intent.NewKeymap(""), strings.NewReader(script), &out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestConsoleSession(t *testing.T) {
	m := newMachine(t, "Ada", "Bo", "Cy")
	out := runScript(t, m, "start\n\n  \nend\nquit\nstart\n")

	s, err := m.State(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Two blank lines and "end" advanced three turns; quit stops reading.
	if !s.IsRunning || s.CurrentPlayerIndex != 0 {
		t.Fatalf("state = %+v", s)
	}
	if !strings.Contains(out, "Current Player") || !strings.Contains(out, "Next Player 2") {
		t.Fatalf("output missing turn order:\n%s", out)
	}
	if strings.Contains(out, "error:") {
		t.Fatalf("unexpected error in output:\n%s", out)
	}
}

func TestConsoleEditing(t *testing.T) {
	m := newMachine(t, "Ada", "Bo")
	out := runScript(t, m, "add\nname 3  Cy  Young \norder 3 1 2\nrm 2\nshow\n")

	s, _ := m.State(context.Background())
	if len(s.Players) != 2 || s.Players[0].Name != "Cy  Young" || s.Players[1].Name != "Bo" {
		t.Fatalf("players = %+v", s.Players)
	}
	if !strings.Contains(out, "-- editing --") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestConsoleReportsErrors(t *testing.T) {
	m := newMachine(t, "", "")
	out := runScript(t, m, "start\nrm 9\nfly\npause\n")

	for _, want := range []string{
		"error: " + turn.ErrNoNamedPlayers.Error(),
		"error: no player 9",
		`error: unknown command "fly"`,
		"error: " + turn.ErrNotRunning.Error(),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleRefusesSecondMount(t *testing.T) {
	m := newMachine(t, "Ada")
	keymap := intent.NewKeymap("")
	keymap.Bind(ViewID)
	c := New(m, keymap, strings.NewReader(""), &bytes.Buffer{})
	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error when the console is already mounted")
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, turn.State{
		Players:            models.Roster{{ID: "a", Name: "Ada", Time: 75}, {ID: "b", Time: 5}},
		CurrentPlayerIndex: 1,
		IsRunning:          true,
	})
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("render:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "Current Player") || !strings.Contains(lines[1], "(unnamed)") || !strings.Contains(lines[1], "0:05") {
		t.Fatalf("current line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Next Player 1") || !strings.Contains(lines[2], "1:15") {
		t.Fatalf("next line = %q", lines[2])
	}
}
