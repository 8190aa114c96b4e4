package intent

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultEndTurnKey is the key code that ends the current turn.
const DefaultEndTurnKey = "Space"

// Keymap records which views have the end-turn key installed. Each view may
// hold at most one binding, so a key event is never delivered twice.
type Keymap struct {
	key   string
	mu    sync.Mutex
	views map[string]struct{}
}

// NewKeymap creates a keymap for the given key code.
func NewKeymap(key string) *Keymap {
	if key == "" {
		key = DefaultEndTurnKey
	}
	return &Keymap{key: key, views: make(map[string]struct{})}
}

// Key returns the bound key code.
func (k *Keymap) Key() string {
	return k.key
}

// Bind installs the binding for a view. It returns false if the view is
// already bound.
func (k *Keymap) Bind(viewID string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.views[viewID]; ok {
		log.Warn().Str("view_id", viewID).Msg("key binding already installed")
		return false
	}
	k.views[viewID] = struct{}{}
	log.Debug().Str("view_id", viewID).Str("key", k.key).Msg("key binding installed")
	return true
}

// Unbind removes the binding for a view. It returns false if none existed.
func (k *Keymap) Unbind(viewID string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.views[viewID]; !ok {
		return false
	}
	delete(k.views, viewID)
	log.Debug().Str("view_id", viewID).Msg("key binding removed")
	return true
}

// Bound reports whether a view currently holds the binding.
func (k *Keymap) Bound(viewID string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.views[viewID]
	return ok
}

// Translate turns a key event from a view into an intent. Events from
// unbound views and other keys are dropped.
func (k *Keymap) Translate(viewID, code string) (Intent, bool) {
	if code != k.key || !k.Bound(viewID) {
		return nil, false
	}
	return KeyPress{Code: code}, true
}
