package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/neotube/neotube/internal/adapters/sqlite"
	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/domain"
	"github.com/rs/zerolog"
)

func newSettingsRouter(t *testing.T, onPut func(domain.ServerSettings)) chi.Router {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:", zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	r := chi.NewRouter()
	NewSettingsHandler(app.NewSettingsService(sqlite.NewSettingsRepository(db.SQL)), onPut).Routes(r)
	return r
}

func putSettings(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSettingsHandler_PutUpdatesStreamLimiter(t *testing.T) {
	lim := app.NewStreamLimiter(1)
	r := newSettingsRouter(t, func(updated domain.ServerSettings) {
		lim.SetLimit(updated.MaxConcurrentStreams)
	})

	rr := putSettings(r, `{"maxConcurrentStreams":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, rr.Code)
	}
	if lim.Limit() != 2 {
		t.Fatalf("limiter limit: want %d, got %d", 2, lim.Limit())
	}
}

func TestSettingsHandler_PutRejectsBadInput(t *testing.T) {
	called := false
	r := newSettingsRouter(t, func(domain.ServerSettings) { called = true })

	cases := map[string]string{
		"invalid json":   `{`,
		"missing field":  `{}`,
		"unknown field":  `{"maxWorkers":3}`,
		"zero":           `{"maxConcurrentStreams":0}`,
		"above ceiling":  `{"maxConcurrentStreams":1000}`,
	}
	for name, body := range cases {
		if rr := putSettings(r, body); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status want 400, got %d", name, rr.Code)
		}
	}
	if called {
		t.Fatalf("rejected settings must not reach the limiter")
	}
}
