package snapshot

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mcdev12/turnclock/go/internal/models"
)

func TestRosterRoundTrip(t *testing.T) {
	in := models.Roster{
		{ID: "player-1", Name: "Ada", Time: 12},
		{ID: "player-2", Name: "", Time: 0},
	}
	data, err := EncodeRoster(in)
	if err != nil {
		t.Fatalf("EncodeRoster: %v", err)
	}
	out, err := DecodeRoster(data)
	if err != nil {
		t.Fatalf("DecodeRoster: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	in := models.Session{
		Players:            models.Roster{{ID: "a", Name: "A", Time: 3}, {ID: "b", Name: "B", Time: 9}},
		CurrentPlayerIndex: 1,
		IsRunning:          true,
		IsPaused:           true,
	}
	data, err := EncodeSession(in)
	if err != nil {
		t.Fatalf("EncodeSession: %v", err)
	}
	out, err := DecodeSession(data)
	if err != nil {
		t.Fatalf("DecodeSession: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestDecodeSessionUsesStoredFieldNames(t *testing.T) {
	raw := `{"players":[{"id":"player-1","name":"Ada","time":4}],"currentPlayerIndex":0,"isRunning":true,"isPaused":false}`
	s, err := DecodeSession([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeSession: %v", err)
	}
	if !s.IsRunning || s.IsPaused || s.CurrentPlayerIndex != 0 || s.Players[0].Time != 4 {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestDecodeRosterRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `[{"id":`},
		{"object instead of array", `{"id":"a","name":"","time":0}`},
		{"element not object", `["a"]`},
		{"missing id", `[{"name":"a","time":0}]`},
		{"empty id", `[{"id":"","name":"a","time":0}]`},
		{"numeric id", `[{"id":1,"name":"a","time":0}]`},
		{"missing name", `[{"id":"a","time":0}]`},
		{"null name", `[{"id":"a","name":null,"time":0}]`},
		{"string time", `[{"id":"a","name":"a","time":"3"}]`},
		{"fractional time", `[{"id":"a","name":"a","time":1.5}]`},
		{"negative time", `[{"id":"a","name":"a","time":-1}]`},
		{"duplicate ids", `[{"id":"a","name":"a","time":0},{"id":"a","name":"b","time":0}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRoster([]byte(tt.raw))
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestDecodeSessionRejectsBadShapes(t *testing.T) {
	player := `{"id":"a","name":"A","time":0}`
	tests := []struct {
		name string
		raw  string
	}{
		{"array", `[]`},
		{"missing players", `{"currentPlayerIndex":0,"isRunning":true,"isPaused":false}`},
		{"bad player", `{"players":[{"id":"a"}],"currentPlayerIndex":0,"isRunning":true,"isPaused":false}`},
		{"string index", `{"players":[` + player + `],"currentPlayerIndex":"0","isRunning":true,"isPaused":false}`},
		{"string flag", `{"players":[` + player + `],"currentPlayerIndex":0,"isRunning":"true","isPaused":false}`},
		{"missing paused", `{"players":[` + player + `],"currentPlayerIndex":0,"isRunning":true}`},
		{"paused without running", `{"players":[` + player + `],"currentPlayerIndex":0,"isRunning":false,"isPaused":true}`},
		{"index out of range", `{"players":[` + player + `],"currentPlayerIndex":1,"isRunning":true,"isPaused":false}`},
		{"negative index", `{"players":[` + player + `],"currentPlayerIndex":-1,"isRunning":true,"isPaused":false}`},
		{"running without players", `{"players":[],"currentPlayerIndex":0,"isRunning":true,"isPaused":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSession([]byte(tt.raw))
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestDecodeSessionAllowsStoppedSession(t *testing.T) {
	raw := `{"players":[],"currentPlayerIndex":0,"isRunning":false,"isPaused":false}`
	s, err := DecodeSession([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeSession: %v", err)
	}
	if s.IsRunning {
		t.Fatal("expected stopped session")
	}
}
