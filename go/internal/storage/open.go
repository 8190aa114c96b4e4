package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Drivers.
const (
	DriverNone     = "none"
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Driver        string `yaml:"driver"`
	Profile       string `yaml:"profile"`
	Dir           string `yaml:"dir"`
	SQLitePath    string `yaml:"sqlite_path"`
	PostgresDSN   string `yaml:"-"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"-"`
	RedisDB       int    `yaml:"redis_db"`
}

// Open builds the configured backend, namespaced by profile. The returned
// closer is never nil.
func Open(ctx context.Context, cfg Config) (Store, io.Closer, error) {
	var (
		store  Store
		closer io.Closer = nopCloser{}
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverNone:
		store = NopStore{}
	case DriverMemory, "":
		store = NewMemoryStore()
	case DriverFile:
		fs, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		store = fs
	case DriverSQLite, "sqlite3":
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s
	case DriverPostgres, "postgresql":
		s, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s
	case DriverRedis:
		s, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}

	return WithPrefix(store, cfg.Profile), closer, nil
}

// OpenOrNop is Open that degrades to NopStore when the medium is unavailable.
func OpenOrNop(ctx context.Context, cfg Config) (Store, io.Closer) {
	store, closer, err := Open(ctx, cfg)
	if err != nil {
		log.Error().
			Err(err).
			Str("driver", cfg.Driver).
			Msg("storage unavailable, running without persistence")
		return NopStore{}, nopCloser{}
	}
	log.Info().
		Str("driver", cfg.Driver).
		Str("profile", cfg.Profile).
		Msg("storage opened")
	return store, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
