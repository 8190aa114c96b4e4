package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/turnclock/go/internal/models"
	"github.com/mcdev12/turnclock/go/internal/snapshot"
	"github.com/rs/zerolog/log"
)

// RosterRepository defines what the app layer needs from the repository
type RosterRepository interface {
	GetRoster(ctx context.Context) (models.Roster, bool, error)
	SaveRoster(ctx context.Context, roster models.Roster) error
}

// Options configures an App.
type Options struct {
	MaxPlayers int
	NewID      func() string
}

// App handles roster business logic. Methods take a roster and return the
// edited copy; every successful edit is persisted.
type App struct {
	repo       RosterRepository
	maxPlayers int
	newID      func() string
}

// NewApp creates a new roster App
func NewApp(repo RosterRepository, opts Options) *App {
	if opts.MaxPlayers < models.MinPlayers {
		opts.MaxPlayers = models.DefaultMaxPlayers
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &App{
		repo:       repo,
		maxPlayers: opts.MaxPlayers,
		newID:      opts.NewID,
	}
}

// Default returns a full roster of unnamed players with fresh ids.
func (a *App) Default() models.Roster {
	r := make(models.Roster, a.maxPlayers)
	for i := range r {
		r[i] = models.Player{ID: a.newID()}
	}
	return r
}

// Load returns the persisted roster, or the default roster when none is
// stored or the stored one cannot be used. A default roster is persisted
// right away so its ids survive a restart.
func (a *App) Load(ctx context.Context) models.Roster {
	r, ok, err := a.repo.GetRoster(ctx)
	switch {
	case errors.Is(err, snapshot.ErrCorrupt):
		log.Warn().Err(err).Msg("discarding corrupt roster snapshot")
	case err != nil:
		log.Error().Err(err).Msg("failed to load roster")
	case !ok:
		log.Debug().Msg("no stored roster, using default")
	case len(r) < models.MinPlayers || len(r) > a.maxPlayers:
		log.Warn().
			Int("players", len(r)).
			Int("max_players", a.maxPlayers).
			Msg("discarding roster snapshot with invalid size")
	default:
		return r
	}
	d := a.Default()
	a.Save(ctx, d)
	return d
}

// Add appends an unnamed player with zero time.
func (a *App) Add(ctx context.Context, r models.Roster) (models.Roster, error) {
	if len(r) >= a.maxPlayers {
		return r, fmt.Errorf("%w: %d of %d seats taken", ErrRosterFull, len(r), a.maxPlayers)
	}
	out := append(r.Clone(), models.Player{ID: a.newID()})
	a.Save(ctx, out)
	return out, nil
}

// Remove drops the player with the given id. The last player cannot be removed.
func (a *App) Remove(ctx context.Context, r models.Roster, id string) (models.Roster, error) {
	i := r.IndexOf(id)
	if i < 0 {
		return r, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if len(r) <= models.MinPlayers {
		return r, ErrLastPlayer
	}
	out := make(models.Roster, 0, len(r)-1)
	out = append(out, r[:i]...)
	out = append(out, r[i+1:]...)
	a.Save(ctx, out)
	return out, nil
}

// Rename replaces a player's display name. Time is untouched.
func (a *App) Rename(ctx context.Context, r models.Roster, id, name string) (models.Roster, error) {
	i := r.IndexOf(id)
	if i < 0 {
		return r, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	out := r.Clone()
	out[i].Name = name
	a.Save(ctx, out)
	return out, nil
}

// Reorder arranges the roster to follow order, which must name every
// player exactly once.
func (a *App) Reorder(ctx context.Context, r models.Roster, order []string) (models.Roster, error) {
	if len(order) != len(r) {
		return r, fmt.Errorf("%w: got %d ids for %d players", ErrInvalidOrder, len(order), len(r))
	}
	out := make(models.Roster, 0, len(r))
	used := make(map[string]bool, len(r))
	for _, id := range order {
		i := r.IndexOf(id)
		if i < 0 || used[id] {
			return r, fmt.Errorf("%w: %q", ErrInvalidOrder, id)
		}
		used[id] = true
		out = append(out, r[i])
	}
	a.Save(ctx, out)
	return out, nil
}

// Save mirrors the roster to storage. Failures are logged; the in-memory
// roster stays authoritative.
func (a *App) Save(ctx context.Context, r models.Roster) {
	if err := a.repo.SaveRoster(ctx, r); err != nil {
		log.Error().Err(err).Int("players", len(r)).Msg("failed to persist roster")
	}
}
