package main

import (
	"context"
	"io"

	"github.com/mcdev12/turnclock/go/internal/config"
	"github.com/mcdev12/turnclock/go/internal/storage"
	"github.com/rs/zerolog/log"
)

// setupStorage opens the configured backend. An unavailable medium is
// logged and replaced with a store that keeps nothing.
func setupStorage(ctx context.Context, cfg *config.Config) (storage.Store, io.Closer) {
	log.Info().
		Str("driver", cfg.Storage.Driver).
		Str("profile", cfg.Storage.Profile).
		Msg("opening storage")
	return storage.OpenOrNop(ctx, cfg.Storage)
}
