package proxyclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/domain"
	"github.com/rs/zerolog"
)

func newTestClient(url string) *Client {
	return New(url, nil, zerolog.Nop())
}

func TestFetchInfo_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/video-info" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("videoId") != "dQw4w9WgXcQ" || r.URL.Query().Get("playlistId") != "PL1" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"dQw4w9WgXcQ","title":"Song","thumbnail":"t.jpg","duration":"3:33","author":"Rick","isPlaylist":true,"playlistId":"PL1","playlistTitle":"Mix","videoCount":2}`)
	}))
	defer srv.Close()

	info, err := newTestClient(srv.URL).FetchInfo(context.Background(), "dQw4w9WgXcQ", "PL1")
	if err != nil {
		t.Fatalf("FetchInfo: %v", err)
	}
	if info.Title != "Song" || !info.IsCollection || info.ItemCount != 2 || info.Duration != "3:33" {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestFetchInfo_APIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchInfo(context.Background(), "abc", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if app.ErrorCode(err) != app.CodeAPI {
		t.Fatalf("expected api_error, got %q (%v)", app.ErrorCode(err), err)
	}
	if app.UserMessage(err) != "boom" {
		t.Fatalf("expected server message, got %q", app.UserMessage(err))
	}
	var coded *app.CodedError
	if !errors.As(err, &coded) || coded.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500 on error, got %+v", coded)
	}
}

func TestFetchInfo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).FetchInfo(context.Background(), "abc", "")
	if app.ErrorCode(err) != app.CodeNetwork {
		t.Fatalf("expected network_error, got %q (%v)", app.ErrorCode(err), err)
	}
}

func TestStreamDownload_KnownLength(t *testing.T) {
	payload := strings.Repeat("x", 3*readChunkSize+17)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("videoId") != "abc" || q.Get("format") != "mp3" || q.Get("quality") != "320kbps" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Disposition", `attachment; filename="My Song.mp3"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = io.WriteString(w, payload)
	}))
	defer srv.Close()

	var seen []float64
	file, err := newTestClient(srv.URL).StreamDownload(context.Background(),
		domain.DownloadRequest{ContentID: "abc", Format: domain.FormatMP3, Quality: "320kbps"},
		func(p float64) { seen = append(seen, p) })
	if err != nil {
		t.Fatalf("StreamDownload: %v", err)
	}
	if string(file.Data) != payload {
		t.Fatalf("payload mismatch: %d bytes", len(file.Data))
	}
	if file.Filename != "My Song.mp3" || file.ContentType != "audio/mpeg" {
		t.Fatalf("unexpected file meta %q %q", file.Filename, file.ContentType)
	}
	assertProgress(t, seen)
}

func TestStreamDownload_UnknownLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl, _ := w.(http.Flusher)
		for i := 0; i < 5; i++ {
			_, _ = io.WriteString(w, "chunk")
			if fl != nil {
				fl.Flush()
			}
		}
	}))
	defer srv.Close()

	var seen []float64
	file, err := newTestClient(srv.URL).StreamDownload(context.Background(),
		domain.DownloadRequest{ContentID: "abc", Format: domain.FormatMP4, Quality: "720p"},
		func(p float64) { seen = append(seen, p) })
	if err != nil {
		t.Fatalf("StreamDownload: %v", err)
	}
	if string(file.Data) != strings.Repeat("chunk", 5) {
		t.Fatalf("unexpected data %q", file.Data)
	}
	if file.Filename != "" {
		t.Fatalf("expected empty filename without Content-Disposition, got %q", file.Filename)
	}
	assertProgress(t, seen)
}

func TestStreamDownload_ReadFailureResetsProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// On annonce plus d'octets que ce qui est envoyé puis on coupe la connexion.
		w.Header().Set("Content-Length", "100000")
		_, _ = io.WriteString(w, "partial")
		w.(http.Flusher).Flush()
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			_ = conn.Close()
		}
	}))
	defer srv.Close()

	var seen []float64
	_, err := newTestClient(srv.URL).StreamDownload(context.Background(),
		domain.DownloadRequest{ContentID: "abc", Format: domain.FormatMP4, Quality: "720p"},
		func(p float64) { seen = append(seen, p) })
	if app.ErrorCode(err) != app.CodeDownload {
		t.Fatalf("expected download_error, got %q (%v)", app.ErrorCode(err), err)
	}
	if len(seen) == 0 || seen[len(seen)-1] != 0 {
		t.Fatalf("expected progress reset to 0, got %v", seen)
	}
	for _, p := range seen {
		if p >= 100 {
			t.Fatalf("100 must not be reported on failure: %v", seen)
		}
	}
}

func TestStreamDownload_HugeContentLengthIsNotPreallocated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.FormatInt(1<<40, 10))
		_, _ = io.WriteString(w, "tiny")
		w.(http.Flusher).Flush()
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			_ = conn.Close()
		}
	}))
	defer srv.Close()

	var seen []float64
	_, err := newTestClient(srv.URL).StreamDownload(context.Background(),
		domain.DownloadRequest{ContentID: "abc", Format: domain.FormatMP4, Quality: "720p"},
		func(p float64) { seen = append(seen, p) })
	if app.ErrorCode(err) != app.CodeDownload {
		t.Fatalf("expected download_error, got %q (%v)", app.ErrorCode(err), err)
	}
	if len(seen) == 0 || seen[len(seen)-1] != 0 {
		t.Fatalf("expected progress reset to 0, got %v", seen)
	}
}

func TestStreamDownload_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Video ID and format are required"}`)
	}))
	defer srv.Close()

	called := false
	_, err := newTestClient(srv.URL).StreamDownload(context.Background(), domain.DownloadRequest{}, func(float64) { called = true })
	if app.UserMessage(err) != "Video ID and format are required" {
		t.Fatalf("unexpected message %q", app.UserMessage(err))
	}
	if called {
		t.Fatalf("progress must not be reported for an error response")
	}
}

func assertProgress(t *testing.T, seen []float64) {
	t.Helper()
	if len(seen) < 2 {
		t.Fatalf("expected several progress updates, got %v", seen)
	}
	hundreds := 0
	for i, p := range seen {
		if p == 100 {
			hundreds++
		}
		if i > 0 && p < seen[i-1] {
			t.Fatalf("progress went backwards: %v", seen)
		}
	}
	if hundreds != 1 || seen[len(seen)-1] != 100 {
		t.Fatalf("expected exactly one final 100, got %v", seen)
	}
}
