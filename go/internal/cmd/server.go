package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mcdev12/turnclock/go/internal/config"
	"github.com/mcdev12/turnclock/go/internal/events"
	"github.com/mcdev12/turnclock/go/internal/gateway"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(cfg *config.Config, services *Services) *http.Server {
	mux := http.NewServeMux()

	// Register websocket and REST views
	services.Gateway.RegisterRoutes(mux)

	// Add health check endpoint
	setupHealthCheck(mux, services)

	// Wrap with CORS
	handler := gateway.NewCORS(cfg.HTTP.AllowedOrigins).Handler(mux)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler:     h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
}

type healthResponse struct {
	Healthy        bool                 `json:"healthy"`
	MachineRunning bool                 `json:"machine_running"`
	Connections    int                  `json:"connections"`
	Feed           *events.HealthStatus `json:"feed,omitempty"`
}

func setupHealthCheck(mux *http.ServeMux, services *Services) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{MachineRunning: true}
		select {
		case <-services.Machine.Done():
			resp.MachineRunning = false
		default:
		}
		resp.Healthy = resp.MachineRunning
		if services.Gateway != nil {
			resp.Connections = services.Gateway.GetStats().TotalConnections
		}
		if services.Feed != nil {
			feed := services.Feed.Check()
			resp.Feed = &feed
			// A broken feed degrades the report but the table still works.
			if !feed.Healthy {
				log.Warn().Strs("errors", feed.Errors).Msg("event feed unhealthy")
			}
		}

		status := http.StatusOK
		if !resp.Healthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
