// Package snapshot encodes and validates the JSON blobs kept in storage.
//
// Blobs are checked field by field before they are turned into models so a
// malformed value never reaches the turn machine.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mcdev12/turnclock/go/internal/models"
	"github.com/tidwall/gjson"
)

// ErrCorrupt is wrapped by every decode failure.
var ErrCorrupt = errors.New("corrupt snapshot")

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

// EncodeRoster marshals a roster into its stored form.
func EncodeRoster(r models.Roster) ([]byte, error) {
	if r == nil {
		r = models.Roster{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal roster: %w", err)
	}
	return data, nil
}

// EncodeSession marshals a session into its stored form.
func EncodeSession(s models.Session) ([]byte, error) {
	if s.Players == nil {
		s.Players = models.Roster{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

// DecodeRoster validates and parses a stored roster.
func DecodeRoster(data []byte) (models.Roster, error) {
	if !gjson.ValidBytes(data) {
		return nil, corrupt("roster is not valid JSON")
	}
	return decodePlayers(gjson.ParseBytes(data), "roster")
}

// DecodeSession validates and parses a stored session.
func DecodeSession(data []byte) (models.Session, error) {
	if !gjson.ValidBytes(data) {
		return models.Session{}, corrupt("session is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return models.Session{}, corrupt("session is not an object")
	}

	players, err := decodePlayers(doc.Get("players"), "players")
	if err != nil {
		return models.Session{}, err
	}
	index, err := integer(doc.Get("currentPlayerIndex"), "currentPlayerIndex")
	if err != nil {
		return models.Session{}, err
	}
	running, err := boolean(doc.Get("isRunning"), "isRunning")
	if err != nil {
		return models.Session{}, err
	}
	paused, err := boolean(doc.Get("isPaused"), "isPaused")
	if err != nil {
		return models.Session{}, err
	}

	if paused && !running {
		return models.Session{}, corrupt("isPaused set without isRunning")
	}
	if running {
		if len(players) == 0 {
			return models.Session{}, corrupt("running session has no players")
		}
		if index < 0 || index >= len(players) {
			return models.Session{}, corrupt("currentPlayerIndex %d out of range [0,%d)", index, len(players))
		}
	}

	return models.Session{
		Players:            players,
		CurrentPlayerIndex: index,
		IsRunning:          running,
		IsPaused:           paused,
	}, nil
}

func decodePlayers(v gjson.Result, field string) (models.Roster, error) {
	if !v.IsArray() {
		return nil, corrupt("%s is not an array", field)
	}
	items := v.Array()
	out := make(models.Roster, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		p, err := decodePlayer(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, corrupt("%s[%d]: duplicate id %q", field, i, p.ID)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func decodePlayer(v gjson.Result) (models.Player, error) {
	if !v.IsObject() {
		return models.Player{}, corrupt("player is not an object")
	}
	id := v.Get("id")
	if id.Type != gjson.String || id.Str == "" {
		return models.Player{}, corrupt("id must be a non-empty string")
	}
	name := v.Get("name")
	if name.Type != gjson.String {
		return models.Player{}, corrupt("name must be a string")
	}
	t, err := integer(v.Get("time"), "time")
	if err != nil {
		return models.Player{}, err
	}
	if t < 0 {
		return models.Player{}, corrupt("time must not be negative")
	}
	return models.Player{ID: id.Str, Name: name.Str, Time: t}, nil
}

func integer(v gjson.Result, field string) (int, error) {
	if v.Type != gjson.Number {
		return 0, corrupt("%s must be a number", field)
	}
	if v.Num != math.Trunc(v.Num) || math.Abs(v.Num) > math.MaxInt32 {
		return 0, corrupt("%s must be an integer", field)
	}
	return int(v.Num), nil
}

func boolean(v gjson.Result, field string) (bool, error) {
	switch v.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	default:
		return false, corrupt("%s must be a boolean", field)
	}
}
