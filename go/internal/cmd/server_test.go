package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/turnclock/go/internal/roster"
	"github.com/mcdev12/turnclock/go/internal/storage"
	"github.com/mcdev12/turnclock/go/internal/turn"
)

func newTestServices() *Services {
	store := storage.NewMemoryStore()
	app := roster.NewApp(roster.NewRepository(store), roster.Options{})
	return &Services{
		Machine: turn.NewMachine(app, turn.NewRepository(store), turn.Options{Clock: clockwork.NewFakeClock()}),
	}
}

func getHealth(t *testing.T, services *Services) (int, healthResponse) {
	t.Helper()
	mux := http.NewServeMux()
	setupHealthCheck(mux, services)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	return rec.Code, resp
}

func TestHealthCheck(t *testing.T) {
	services := newTestServices()

	ctx, cancel := context.WithCancel(context.Background())
	go services.Machine.Run(ctx)

	code, resp := getHealth(t, services)
	if code != http.StatusOK || !resp.Healthy || !resp.MachineRunning {
		t.Fatalf("running machine: code %d, resp %+v", code, resp)
	}
	if resp.Feed != nil {
		t.Fatalf("feed reported without a publisher: %+v", resp.Feed)
	}

	cancel()
	<-services.Machine.Done()

	code, resp = getHealth(t, services)
	if code != http.StatusServiceUnavailable || resp.Healthy || resp.MachineRunning {
		t.Fatalf("stopped machine: code %d, resp %+v", code, resp)
	}
}
