package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

const variousDuration = "Various"

// MediaService est le cœur du serveur proxy: métadonnées et flux via l'extracteur.
type MediaService struct {
	logger  zerolog.Logger
	source  ports.MediaSource
	limiter *StreamLimiter
	bus     ports.EventBus
}

func NewMediaService(logger zerolog.Logger, source ports.MediaSource, limiter *StreamLimiter, bus ports.EventBus) *MediaService {
	return &MediaService{logger: logger, source: source, limiter: limiter, bus: bus}
}

func (s *MediaService) Info(ctx context.Context, videoID, playlistID string) (domain.ContentInfo, error) {
	videoID = strings.TrimSpace(videoID)
	playlistID = strings.TrimSpace(playlistID)
	if videoID == "" && playlistID == "" {
		return domain.ContentInfo{}, &CodedError{Code: CodeInvalidParams, Message: "Video ID is required"}
	}

	var info domain.ContentInfo
	if videoID != "" {
		v, err := s.source.Video(ctx, videoID)
		if err != nil {
			return domain.ContentInfo{}, upstreamError(err)
		}
		info = v
		info.ID = videoID
	}
	if playlistID == "" {
		return info, nil
	}

	pl, err := s.source.Playlist(ctx, playlistID)
	if err != nil {
		if videoID == "" {
			return domain.ContentInfo{}, upstreamError(err)
		}
		// La vidéo seule reste exploitable.
		s.logger.Warn().Err(err).Str("playlist_id", playlistID).Msg("playlist lookup failed")
		return info, nil
	}

	if videoID == "" {
		if len(pl.Entries) == 0 {
			return domain.ContentInfo{}, &CodedError{Code: CodeUpstream, Message: "playlist has no videos"}
		}
		info = pl.Entries[0]
		info.Duration = variousDuration
		if info.Author == "" {
			info.Author = pl.Author
		}
	}
	info.IsCollection = true
	info.CollectionID = pl.ID
	if info.CollectionID == "" {
		info.CollectionID = playlistID
	}
	info.CollectionTitle = pl.Title
	info.ItemCount = len(pl.Entries)
	return info, nil
}

// Download est un flux prêt à être recopié vers le client. Done doit toujours être appelé.
type Download struct {
	ID          string
	Filename    string
	ContentType string
	// Size vaut 0 si l'extracteur ne connaît pas la taille.
	Size int64
	Body io.Reader

	closer  io.Closer
	counter *countingReader
	event   downloadEvent
	release func()
	svc     *MediaService
	once    sync.Once
}

type downloadEvent struct {
	ID      string              `json:"id"`
	VideoID string              `json:"videoId"`
	Format  domain.Format       `json:"format"`
	Quality string              `json:"quality"`
	Preset  domain.StreamPreset `json:"preset"`
	Bytes   int64               `json:"bytes,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func (s *MediaService) Open(ctx context.Context, videoID, rawFormat, quality string) (*Download, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" || strings.TrimSpace(rawFormat) == "" {
		return nil, &CodedError{Code: CodeInvalidParams, Message: "Video ID and format are required"}
	}
	format := domain.NormalizeFormat(rawFormat)
	preset := domain.SelectPreset(format, quality)
	evt := downloadEvent{ID: xid.New().String(), VideoID: videoID, Format: format, Quality: quality, Preset: preset}

	release := func() {}
	if s.limiter != nil {
		r, err := s.limiter.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		release = r
	}

	stream, err := s.source.Stream(ctx, videoID, preset)
	if err != nil {
		release()
		coded := upstreamError(err)
		evt.Error = coded.Error()
		s.publish("download.failed", evt)
		return nil, coded
	}

	counter := &countingReader{r: stream.Body}
	d := &Download{
		ID:          evt.ID,
		Filename:    domain.SanitizeFilename(stream.Title, format),
		ContentType: domain.ContentType(format),
		Size:        stream.Size,
		Body:        counter,
		closer:      stream.Body,
		counter:     counter,
		event:       evt,
		release:     release,
		svc:         s,
	}
	s.logger.Info().Str("download_id", evt.ID).Str("video_id", videoID).Str("preset", string(preset)).Msg("stream opened")
	s.publish("download.started", evt)
	return d, nil
}

// Done ferme le flux amont, libère la place du limiteur et publie l'issue.
func (d *Download) Done(copyErr error) {
	d.once.Do(func() {
		_ = d.closer.Close()
		d.release()

		evt := d.event
		evt.Bytes = d.counter.n
		logger := d.svc.logger.With().Str("download_id", evt.ID).Int64("bytes", evt.Bytes).Logger()
		if copyErr != nil {
			evt.Error = copyErr.Error()
			logger.Warn().Err(copyErr).Msg("stream aborted")
			d.svc.publish("download.failed", evt)
			return
		}
		logger.Info().Msg("stream completed")
		d.svc.publish("download.completed", evt)
	})
}

func (s *MediaService) publish(topic string, evt downloadEvent) {
	if s.bus == nil {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	s.bus.Publish(topic, b)
}

func upstreamError(err error) *CodedError {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}
	return &CodedError{Code: CodeUpstream, Err: err}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
