package main

import (
	"os"

	"github.com/mcdev12/turnclock/go/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

// setupLogging sends console-formatted logs to stderr so stdout stays free
// for the terminal view.
func setupLogging(cfg *config.Config) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(cfg.Level())
}
