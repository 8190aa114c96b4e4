package main

import (
	"context"

	"github.com/mcdev12/turnclock/go/internal/config"
	"github.com/mcdev12/turnclock/go/internal/events"
	"github.com/mcdev12/turnclock/go/internal/gateway"
	"github.com/mcdev12/turnclock/go/internal/intent"
	"github.com/mcdev12/turnclock/go/internal/roster"
	"github.com/mcdev12/turnclock/go/internal/storage"
	"github.com/mcdev12/turnclock/go/internal/turn"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Machine   *turn.Machine
	Keymap    *intent.Keymap
	Gateway   *gateway.Service
	Feed      *events.Feed
	publisher *events.JetStreamPublisher
}

func setupServices(ctx context.Context, cfg *config.Config, store storage.Store) *Services {
	// Storage → Repository → App → Machine → Views

	rosterRepo := roster.NewRepository(store)
	rosterApp := roster.NewApp(rosterRepo, roster.Options{MaxPlayers: cfg.Timer.MaxPlayers})

	sessionRepo := turn.NewRepository(store)
	machine := turn.NewMachine(rosterApp, sessionRepo, turn.Options{
		TickPeriod: cfg.Timer.TickPeriod,
		Policy:     cfg.Policy(),
		EndTurnKey: cfg.Timer.EndTurnKey,
	})

	services := &Services{
		Machine: machine,
		Keymap:  intent.NewKeymap(cfg.Timer.EndTurnKey),
	}

	if cfg.NATS.URL != "" {
		jsCfg := events.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATS.URL
		jsCfg.StreamName = cfg.NATS.StreamName
		jsCfg.SubjectPrefix = cfg.NATS.SubjectPrefix

		publisher, err := events.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			log.Error().Err(err).Str("nats_url", cfg.NATS.URL).Msg("event feed disabled")
		} else {
			services.publisher = publisher
			services.Feed = events.NewFeed(publisher, cfg.NATS.QueueSize)
			machine.Subscribe(services.Feed)
		}
	}

	if cfg.HTTP.Enabled {
		services.Gateway = gateway.NewService(gateway.DefaultConfig(), machine, services.Keymap)
	}

	return services
}

// Close releases connections held by the services
func (s *Services) Close() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close NATS publisher")
		}
	}
}
