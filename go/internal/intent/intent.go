// Package intent defines the user-triggered requests that drive the turn
// machine, their wire form, and the keyboard binding registry.
package intent

import (
	"encoding/json"
	"fmt"
)

// Kind names an intent on the wire.
type Kind string

const (
	KindStart          Kind = "start"
	KindEndTurn        Kind = "end_turn"
	KindPause          Kind = "pause"
	KindResume         Kind = "resume"
	KindBack           Kind = "back"
	KindAddPlayer      Kind = "add_player"
	KindRemovePlayer   Kind = "remove_player"
	KindRenamePlayer   Kind = "rename_player"
	KindReorderPlayers Kind = "reorder_players"
	KindKey            Kind = "key"
)

// Intent is a discrete request to change state.
type Intent interface {
	Kind() Kind
}

type (
	Start   struct{}
	EndTurn struct{}
	Pause   struct{}
	Resume  struct{}
	Back    struct{}

	AddPlayer    struct{}
	RemovePlayer struct {
		ID string
	}
	RenamePlayer struct {
		ID   string
		Name string
	}
	ReorderPlayers struct {
		Order []string
	}

	// KeyPress is a raw key event from a view with a bound keymap.
	KeyPress struct {
		Code string
	}
)

func (Start) Kind() Kind          { return KindStart }
func (EndTurn) Kind() Kind        { return KindEndTurn }
func (Pause) Kind() Kind          { return KindPause }
func (Resume) Kind() Kind         { return KindResume }
func (Back) Kind() Kind           { return KindBack }
func (AddPlayer) Kind() Kind      { return KindAddPlayer }
func (RemovePlayer) Kind() Kind   { return KindRemovePlayer }
func (RenamePlayer) Kind() Kind   { return KindRenamePlayer }
func (ReorderPlayers) Kind() Kind { return KindReorderPlayers }
func (KeyPress) Kind() Kind       { return KindKey }

// Envelope is the JSON form views send.
type Envelope struct {
	Type  Kind     `json:"type"`
	ID    string   `json:"id,omitempty"`
	Name  *string  `json:"name,omitempty"`
	Order []string `json:"order,omitempty"`
	Code  string   `json:"code,omitempty"`
}

// Decode parses an envelope into a concrete intent.
func Decode(data []byte) (Intent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal intent: %w", err)
	}
	return env.Intent()
}

// Intent converts the envelope, checking required fields.
func (e Envelope) Intent() (Intent, error) {
	switch e.Type {
	case KindStart:
		return Start{}, nil
	case KindEndTurn:
		return EndTurn{}, nil
	case KindPause:
		return Pause{}, nil
	case KindResume:
		return Resume{}, nil
	case KindBack:
		return Back{}, nil
	case KindAddPlayer:
		return AddPlayer{}, nil
	case KindRemovePlayer:
		if e.ID == "" {
			return nil, fmt.Errorf("%s: id is required", e.Type)
		}
		return RemovePlayer{ID: e.ID}, nil
	case KindRenamePlayer:
		if e.ID == "" || e.Name == nil {
			return nil, fmt.Errorf("%s: id and name are required", e.Type)
		}
		return RenamePlayer{ID: e.ID, Name: *e.Name}, nil
	case KindReorderPlayers:
		if len(e.Order) == 0 {
			return nil, fmt.Errorf("%s: order is required", e.Type)
		}
		return ReorderPlayers{Order: e.Order}, nil
	case KindKey:
		if e.Code == "" {
			return nil, fmt.Errorf("%s: code is required", e.Type)
		}
		return KeyPress{Code: e.Code}, nil
	case "":
		return nil, fmt.Errorf("intent type is required")
	default:
		return nil, fmt.Errorf("unknown intent type: %s", e.Type)
	}
}
