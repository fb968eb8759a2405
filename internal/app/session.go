package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

type SessionPhase string

const (
	PhaseIdle    SessionPhase = "idle"
	PhaseLoading SessionPhase = "loading"
	PhaseReady   SessionPhase = "ready"
)

// Topics publiés sur le bus par la session.
const (
	TopicSessionState    = "session.state"
	TopicSessionProgress = "session.progress"
	TopicSessionHistory  = "session.history"
	TopicSessionNotice   = "session.notice"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// SessionState est l'instantané observable par le rendu.
type SessionState struct {
	Phase     SessionPhase            `json:"phase"`
	Info      *domain.ContentInfo     `json:"videoInfo,omitempty"`
	Selected  *domain.DownloadOption  `json:"selected,omitempty"`
	Progress  domain.DownloadProgress `json:"downloadProgress"`
	SavedPath string                  `json:"savedPath,omitempty"`
}

// Session orchestre parseur, proxy, sauvegarde et historique pour un utilisateur.
// Un seul téléchargement à la fois: les demandes concurrentes sont refusées.
type Session struct {
	logger  zerolog.Logger
	proxy   ports.Proxy
	history *HistoryService
	saver   ports.FileSaver
	bus     ports.EventBus
	now     func() time.Time

	mu          sync.Mutex
	state       SessionState
	downloading bool
}

func NewSession(logger zerolog.Logger, proxy ports.Proxy, history *HistoryService, saver ports.FileSaver, bus ports.EventBus) *Session {
	return &Session{
		logger:  logger,
		proxy:   proxy,
		history: history,
		saver:   saver,
		bus:     bus,
		now:     time.Now,
		state:   SessionState{Phase: PhaseIdle, Progress: domain.IdleProgress()},
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) History(ctx context.Context) []domain.HistoryRecord {
	return s.history.List(ctx)
}

func (s *Session) ClearHistory(ctx context.Context) {
	s.history.Clear(ctx)
	s.publishJSON(TopicSessionHistory, s.history.List(ctx))
}

// SubmitURL charge la fiche du contenu désigné par rawURL.
// Une URL invalide est refusée localement sans appel réseau.
func (s *Session) SubmitURL(ctx context.Context, rawURL string) error {
	if !domain.IsValidURL(rawURL) {
		return &CodedError{Code: CodeValidation, Message: "Please enter a valid YouTube URL"}
	}
	ref := domain.ParseURL(rawURL)

	s.mu.Lock()
	if s.downloading {
		s.mu.Unlock()
		return ErrDownloadInProgress
	}
	s.state = SessionState{Phase: PhaseLoading, Progress: domain.DownloadProgress{Status: domain.StatusLoading}}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publishJSON(TopicSessionState, snap)

	info, err := s.proxy.FetchInfo(ctx, ref.ContentID, ref.CollectionID)

	s.mu.Lock()
	if err != nil {
		msg := UserMessage(err)
		s.state = SessionState{Phase: PhaseIdle, Progress: domain.DownloadProgress{Status: domain.StatusError, Error: msg}}
		snap = s.snapshotLocked()
		s.mu.Unlock()

		s.logger.Warn().Err(err).Str("code", ErrorCode(err)).Str("content_id", ref.ContentID).Msg("fetch info failed")
		s.publishJSON(TopicSessionState, snap)
		s.notify(NoticeError, "Error fetching video info", msg)
		return err
	}
	s.state = SessionState{Phase: PhaseReady, Info: &info, Progress: domain.IdleProgress()}
	snap = s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Str("content_id", info.ID).Bool("collection", info.IsCollection).Msg("content loaded")
	s.publishJSON(TopicSessionState, snap)
	return nil
}

// Options renvoie le catalogue adapté au contenu chargé.
func (s *Session) Options() ([]domain.DownloadOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Info == nil {
		return nil, ErrNoContent
	}
	return domain.DownloadOptions(s.state.Info.IsCollection), nil
}

// SelectOption mémorise le choix; aucun effet réseau.
func (s *Session) SelectOption(opt domain.DownloadOption) error {
	s.mu.Lock()
	if s.state.Phase != PhaseReady || s.state.Info == nil {
		s.mu.Unlock()
		return ErrNoContent
	}
	known, ok := domain.FindOption(s.state.Info.IsCollection, opt.Format, opt.Quality)
	if !ok {
		s.mu.Unlock()
		return &CodedError{Code: CodeValidation, Message: "unsupported format/quality: " + string(opt.Format) + " " + opt.Quality}
	}
	s.state.Selected = &known
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publishJSON(TopicSessionState, snap)
	return nil
}

// Download télécharge l'option choisie, enregistre le fichier puis l'historique.
// Renvoie l'emplacement du fichier sauvegardé.
func (s *Session) Download(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.downloading {
		s.mu.Unlock()
		return "", ErrDownloadInProgress
	}
	if s.state.Phase != PhaseReady || s.state.Info == nil {
		s.mu.Unlock()
		return "", ErrNoContent
	}
	if s.state.Selected == nil {
		s.mu.Unlock()
		return "", ErrNoOptionSelected
	}
	s.downloading = true
	info := *s.state.Info
	opt := *s.state.Selected
	s.state.SavedPath = ""
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.downloading = false
		s.mu.Unlock()
	}()

	logger := s.logger.With().Str("attempt_id", xid.New().String()).Str("content_id", info.ID).
		Str("format", string(opt.Format)).Str("quality", opt.Quality).Logger()
	logger.Info().Msg("download started")

	s.setProgress(domain.DownloadProgress{Status: domain.StatusDownloading})

	file, err := s.proxy.StreamDownload(ctx, domain.DownloadRequest{ContentID: info.ID, Format: opt.Format, Quality: opt.Quality}, func(p float64) {
		status := domain.StatusDownloading
		if p >= 100 {
			status = domain.StatusComplete
		}
		s.setProgress(domain.DownloadProgress{Status: status, Progress: p})
	})
	if err != nil {
		return "", s.fail(logger, err)
	}

	name := file.Filename
	if name == "" {
		name = domain.SanitizeFilename(info.Title, opt.Format)
	}
	path, err := s.saver.Save(ctx, name, file.Data)
	if err != nil {
		return "", s.fail(logger, &CodedError{Code: CodeDownload, Message: "failed to save file", Err: err})
	}

	s.history.Append(ctx, domain.HistoryRecord{
		ID:           info.ID,
		Title:        info.Title,
		Thumbnail:    info.Thumbnail,
		Format:       opt.Format,
		Quality:      opt.Quality,
		DownloadDate: s.now().UTC().Format(time.RFC3339),
		SourceURL:    domain.WatchURL(info.ID),
	})

	s.mu.Lock()
	s.state.SavedPath = path
	snap := s.snapshotLocked()
	s.mu.Unlock()

	logger.Info().Str("path", path).Int("bytes", len(file.Data)).Msg("download completed")
	s.publishJSON(TopicSessionState, snap)
	s.publishJSON(TopicSessionHistory, s.history.List(ctx))
	s.notify(NoticeSuccess, "Download Complete", "Your download has completed successfully")
	return path, nil
}

func (s *Session) fail(logger zerolog.Logger, err error) error {
	msg := UserMessage(err)
	s.setProgress(domain.DownloadProgress{Status: domain.StatusError, Error: msg})
	logger.Warn().Err(err).Str("code", ErrorCode(err)).Msg("download failed")
	s.notify(NoticeError, "Download Failed", msg)
	return err
}

func (s *Session) setProgress(p domain.DownloadProgress) {
	s.mu.Lock()
	if !domain.CanTransition(s.state.Progress.Status, p.Status) {
		s.logger.Debug().Str("from", string(s.state.Progress.Status)).Str("to", string(p.Status)).Msg("unexpected progress transition")
	}
	s.state.Progress = p
	s.mu.Unlock()
	s.publishJSON(TopicSessionProgress, p)
}

func (s *Session) notify(level NoticeLevel, title, message string) {
	s.publishJSON(TopicSessionNotice, Notice{Level: level, Title: title, Message: message})
}

func (s *Session) publishJSON(topic string, v any) {
	if s.bus == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.bus.Publish(topic, b)
}

func (s *Session) snapshotLocked() SessionState {
	snap := s.state
	if s.state.Info != nil {
		info := *s.state.Info
		snap.Info = &info
	}
	if s.state.Selected != nil {
		sel := *s.state.Selected
		snap.Selected = &sel
	}
	return snap
}
