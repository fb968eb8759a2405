package app_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neotube/neotube/internal/adapters/localfs"
	"github.com/neotube/neotube/internal/adapters/memorybus"
	"github.com/neotube/neotube/internal/adapters/memstore"
	"github.com/neotube/neotube/internal/adapters/proxyclient"
	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
	"github.com/rs/zerolog"
)

func nextNotice(t *testing.T, events <-chan ports.Event) app.Notice {
	t.Helper()
	for {
		select {
		case evt := <-events:
			if evt.Topic != app.TopicSessionNotice {
				continue
			}
			var n app.Notice
			if err := json.Unmarshal(evt.Payload, &n); err != nil {
				t.Fatalf("notice payload: %v", err)
			}
			return n
		case <-time.After(time.Second):
			t.Fatalf("no notice published")
		}
	}
}

// Le message {"error": ...} du serveur doit arriver tel quel jusqu'à l'utilisateur.
func TestSession_ServerErrorMessageReachesUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	}))
	defer srv.Close()

	bus := memorybus.New()
	defer bus.Close()
	events, cancel := bus.Subscribe()
	defer cancel()

	proxy := proxyclient.New(srv.URL, srv.Client(), zerolog.Nop())
	history := app.NewHistoryService(zerolog.Nop(), memstore.NewHistoryRepository())
	s := app.NewSession(zerolog.Nop(), proxy, history, localfs.NewSaver(t.TempDir()), bus)
	ctx := context.Background()

	err := s.SubmitURL(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if app.ErrorCode(err) != app.CodeAPI {
		t.Fatalf("expected api_error, got %q (%v)", app.ErrorCode(err), err)
	}
	if st := s.State(); st.Progress.Status != domain.StatusError || st.Progress.Error != "boom" {
		t.Fatalf("unexpected progress %+v", st.Progress)
	}
	if n := nextNotice(t, events); n.Level != app.NoticeError || n.Message != "boom" {
		t.Fatalf("unexpected notice %+v", n)
	}
}
