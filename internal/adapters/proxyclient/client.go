// Package proxyclient parle au serveur neotube (/api/video-info, /api/download).
package proxyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/domain"
	"github.com/rs/zerolog"
)

const (
	readChunkSize = 32 * 1024
	// maxPrealloc borne la réservation initiale: le Content-Length annoncé peut mentir.
	maxPrealloc = 64 << 20
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New crée un client. Sans httpClient, un client sans timeout est utilisé:
// un serveur muet laisse l'appel en attente jusqu'à annulation du contexte.
func New(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), http: httpClient, logger: logger}
}

func (c *Client) FetchInfo(ctx context.Context, contentID, collectionID string) (domain.ContentInfo, error) {
	q := url.Values{}
	if contentID != "" {
		q.Set("videoId", contentID)
	}
	if collectionID != "" {
		q.Set("playlistId", collectionID)
	}

	resp, err := c.get(ctx, "/api/video-info", q)
	if err != nil {
		return domain.ContentInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ContentInfo{}, apiError(resp)
	}
	var info domain.ContentInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.ContentInfo{}, &app.CodedError{Code: app.CodeAPI, Status: resp.StatusCode, Message: "invalid video info response", Err: err}
	}
	return info, nil
}

// StreamDownload lit le corps par morceaux et rapporte la progression en pourcentage.
// La valeur 100 n'est émise qu'une fois, après la fin du flux.
func (c *Client) StreamDownload(ctx context.Context, req domain.DownloadRequest, onProgress func(progress float64)) (domain.DownloadedFile, error) {
	if onProgress == nil {
		onProgress = func(float64) {}
	}
	q := url.Values{}
	q.Set("videoId", req.ContentID)
	q.Set("format", string(req.Format))
	q.Set("quality", req.Quality)

	resp, err := c.get(ctx, "/api/download", q)
	if err != nil {
		return domain.DownloadedFile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.DownloadedFile{}, apiError(resp)
	}

	tracker := newProgressTracker(resp.ContentLength, onProgress)
	var out bytes.Buffer
	if resp.ContentLength > 0 {
		out.Grow(int(min(resp.ContentLength, maxPrealloc)))
	}
	buf := make([]byte, readChunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
			tracker.add(int64(n))
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			onProgress(0)
			return domain.DownloadedFile{}, &app.CodedError{Code: app.CodeDownload, Message: "download interrupted", Err: rerr}
		}
	}
	tracker.finish()

	c.logger.Debug().Str("video_id", req.ContentID).Int("bytes", out.Len()).Msg("download body received")
	return domain.DownloadedFile{
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        out.Bytes(),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &app.CodedError{Code: app.CodeNetwork, Message: "invalid server url", Err: err}
	}
	httpReq.Header.Set("User-Agent", "neotube")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &app.CodedError{Code: app.CodeNetwork, Message: "server unreachable", Err: err}
	}
	return resp, nil
}

type errorBody struct {
	Error string `json:"error"`
}

// apiError remonte le message du serveur tel quel.
func apiError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	msg := ""
	if err := json.Unmarshal(b, &body); err == nil {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &app.CodedError{Code: app.CodeAPI, Status: resp.StatusCode, Message: msg}
}

func filenameFromDisposition(v string) string {
	if v == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(v)
	if err != nil {
		return ""
	}
	return params["filename"]
}
