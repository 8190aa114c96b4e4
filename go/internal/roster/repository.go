package roster

import (
	"context"
	"fmt"

	"github.com/mcdev12/turnclock/go/internal/models"
	"github.com/mcdev12/turnclock/go/internal/snapshot"
	"github.com/mcdev12/turnclock/go/internal/storage"
)

// Repository reads and writes the roster snapshot.
type Repository struct {
	store storage.Store
}

// NewRepository creates a roster repository over a store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// GetRoster returns the stored roster. ok is false when none is stored.
// A malformed blob yields an error wrapping snapshot.ErrCorrupt.
func (r *Repository) GetRoster(ctx context.Context) (models.Roster, bool, error) {
	data, ok, err := r.store.Get(ctx, storage.KeyRoster)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read roster: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	roster, err := snapshot.DecodeRoster(data)
	if err != nil {
		return nil, false, err
	}
	return roster, true, nil
}

// SaveRoster replaces the stored roster.
func (r *Repository) SaveRoster(ctx context.Context, roster models.Roster) error {
	data, err := snapshot.EncodeRoster(roster)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, storage.KeyRoster, data); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}
