package models

import "strings"

// Player is one seat at the table and the time it has used so far.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time int    `json:"time"` // whole seconds
}

// HasName reports whether the player has a non-blank display name.
func (p Player) HasName() bool {
	return strings.TrimSpace(p.Name) != ""
}
