package turn

import (
	"reflect"
	"testing"

	"github.com/mcdev12/turnclock/go/internal/models"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{7, "0:07"},
		{65, "1:05"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTurnOrder(t *testing.T) {
	players := models.Roster{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	ids := func(r models.Roster) []string {
		out := make([]string, len(r))
		for i, p := range r {
			out[i] = p.ID
		}
		return out
	}

	editing := State{Players: players, CurrentPlayerIndex: 2}
	if got := ids(editing.TurnOrder()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("editing order = %v", got)
	}
	running := State{Players: players, CurrentPlayerIndex: 2, IsRunning: true}
	if got := ids(running.TurnOrder()); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("running order = %v", got)
	}
	if got := (State{}).TurnOrder(); len(got) != 0 {
		t.Errorf("empty order = %v", got)
	}
}

func TestPhaseAndCurrent(t *testing.T) {
	s := State{Players: models.Roster{{ID: "a"}, {ID: "b"}}, CurrentPlayerIndex: 1}
	if s.Phase() != PhaseEditing {
		t.Fatalf("phase = %s", s.Phase())
	}
	if _, ok := s.Current(); ok {
		t.Fatal("no current player while editing")
	}
	s.IsRunning = true
	if p, ok := s.Current(); !ok || p.ID != "b" {
		t.Fatalf("Current() = %v, %v", p, ok)
	}
	s.IsPaused = true
	if s.Phase() != PhasePaused {
		t.Fatalf("phase = %s", s.Phase())
	}
}

func TestParseTimePolicy(t *testing.T) {
	for in, want := range map[string]TimePolicy{"": PolicyCarry, "carry": PolicyCarry, " Reset ": PolicyReset} {
		got, err := ParseTimePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseTimePolicy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTimePolicy("rewind"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
