package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/turnclock/go/internal/console"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closer := setupStorage(ctx, cfg)
	defer func() {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	services := setupServices(ctx, cfg, store)
	defer services.Close()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := services.Machine.Run(ctx); err != nil {
			log.Error().Err(err).Msg("turn machine failed")
		}
		// Nothing works without the machine.
		stop()
	}()

	if services.Feed != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			services.Feed.Run(ctx)
		}()
	}

	if services.Gateway != nil {
		server := setupServer(cfg, services)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := services.Gateway.Start(ctx); err != nil {
				log.Error().Err(err).Msg("gateway service failed")
			}
		}()

		go func() {
			log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("HTTP server failed")
				stop()
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("HTTP server shutdown failed")
			}
		}()
	}

	if cfg.Console.Enabled {
		go func() {
			c := console.New(services.Machine, services.Keymap, os.Stdin, os.Stdout)
			if err := c.Run(ctx); err != nil {
				log.Error().Err(err).Msg("console failed")
			}
			// Leaving the console ends the program.
			stop()
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")
	wg.Wait()
	log.Info().Msg("turnclock stopped")
}
