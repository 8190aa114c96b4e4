package turn

import (
	"context"
	"fmt"

	"github.com/mcdev12/turnclock/go/internal/models"
	"github.com/mcdev12/turnclock/go/internal/snapshot"
	"github.com/mcdev12/turnclock/go/internal/storage"
)

// Repository reads and writes the session snapshot.
type Repository struct {
	store storage.Store
}

// NewRepository creates a session repository over a store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// GetSession returns the stored session. ok is false when none is stored.
func (r *Repository) GetSession(ctx context.Context) (models.Session, bool, error) {
	data, ok, err := r.store.Get(ctx, storage.KeySession)
	if err != nil {
		return models.Session{}, false, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return models.Session{}, false, nil
	}
	sess, err := snapshot.DecodeSession(data)
	if err != nil {
		return models.Session{}, false, err
	}
	return sess, true, nil
}

// SaveSession replaces the stored session.
func (r *Repository) SaveSession(ctx context.Context, sess models.Session) error {
	data, err := snapshot.EncodeSession(sess)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, storage.KeySession, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// DeleteSession removes the stored session.
func (r *Repository) DeleteSession(ctx context.Context) error {
	if err := r.store.Remove(ctx, storage.KeySession); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
