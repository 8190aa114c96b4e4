package models

// Roster limits.
const (
	DefaultMaxPlayers = 6
	MinPlayers        = 1
)

// Roster is the ordered list of players. Order is turn order.
type Roster []Player

// Clone returns a copy that shares no backing array with r.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

// IndexOf returns the position of the player with the given id, or -1.
func (r Roster) IndexOf(id string) int {
	for i, p := range r {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AnyNamed reports whether at least one player has a non-blank name.
func (r Roster) AnyNamed() bool {
	for _, p := range r {
		if p.HasName() {
			return true
		}
	}
	return false
}
