// Package youtube implémente ports.MediaSource au-dessus de github.com/kkdai/youtube/v2.
package youtube

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
	"github.com/rs/zerolog"
)

type Source struct {
	client *youtube.Client
	logger zerolog.Logger
}

// New construit la source. Le client HTTP n'a pas de timeout global: un flux
// peut durer longtemps, l'annulation passe par le contexte de la requête.
func New(logger zerolog.Logger, httpClient *http.Client) *Source {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Source{
		client: &youtube.Client{HTTPClient: httpClient},
		logger: logger,
	}
}

var _ ports.MediaSource = (*Source)(nil)

func (s *Source) Video(ctx context.Context, videoID string) (domain.ContentInfo, error) {
	v, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return domain.ContentInfo{}, classify(err, "video lookup failed")
	}
	return domain.ContentInfo{
		ID:        videoID,
		Title:     v.Title,
		Thumbnail: lastThumbnail(v.Thumbnails),
		Duration:  domain.FormatDuration(seconds(v.Duration)),
		Author:    v.Author,
	}, nil
}

func (s *Source) Playlist(ctx context.Context, playlistID string) (ports.PlaylistInfo, error) {
	p, err := s.client.GetPlaylistContext(ctx, playlistID)
	if err != nil {
		return ports.PlaylistInfo{}, classify(err, "playlist lookup failed")
	}
	out := ports.PlaylistInfo{
		ID:      p.ID,
		Title:   p.Title,
		Author:  p.Author,
		Entries: make([]domain.ContentInfo, 0, len(p.Videos)),
	}
	if out.ID == "" {
		out.ID = playlistID
	}
	for _, e := range p.Videos {
		if e == nil {
			continue
		}
		out.Entries = append(out.Entries, domain.ContentInfo{
			ID:        e.ID,
			Title:     e.Title,
			Thumbnail: lastThumbnail(e.Thumbnails),
			Duration:  domain.FormatDuration(seconds(e.Duration)),
			Author:    e.Author,
		})
	}
	return out, nil
}

func (s *Source) Stream(ctx context.Context, videoID string, preset domain.StreamPreset) (ports.MediaStream, error) {
	v, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return ports.MediaStream{}, classify(err, "video lookup failed")
	}
	f, err := selectFormat(v.Formats, preset)
	if err != nil {
		return ports.MediaStream{}, &app.CodedError{Code: app.CodeUpstream, Message: "no matching format", Err: err}
	}

	body, size, err := s.client.GetStreamContext(ctx, v, f)
	if err != nil {
		return ports.MediaStream{}, classify(err, "stream open failed")
	}
	if size <= 0 {
		size = f.ContentLength
	}

	s.logger.Debug().
		Str("video_id", videoID).
		Str("preset", string(preset)).
		Int("itag", f.ItagNo).
		Str("mime", f.MimeType).
		Int64("size", size).
		Msg("upstream stream opened")

	return ports.MediaStream{
		Title:    v.Title,
		MimeType: f.MimeType,
		Size:     size,
		Body:     body,
	}, nil
}

// classify distingue les identifiants invalides (400) des échecs amont.
func classify(err error, msg string) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength),
		errors.Is(err, youtube.ErrInvalidPlaylist):
		return &app.CodedError{Code: app.CodeInvalidParams, Message: msg, Err: err}
	default:
		return &app.CodedError{Code: app.CodeUpstream, Message: msg, Err: err}
	}
}

func lastThumbnail(thumbs youtube.Thumbnails) string {
	if len(thumbs) == 0 {
		return ""
	}
	return thumbs[len(thumbs)-1].URL
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
