package app

import (
	"context"

	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
	"github.com/rs/zerolog"
)

// HistoryService expose l'historique local. Aucune opération n'échoue du point de vue
// de l'appelant: les erreurs de stockage sont journalisées puis absorbées.
type HistoryService struct {
	logger zerolog.Logger
	repo   ports.HistoryRepository
}

func NewHistoryService(logger zerolog.Logger, repo ports.HistoryRepository) *HistoryService {
	return &HistoryService{logger: logger, repo: repo}
}

// List renvoie l'historique, plus récent d'abord; une liste vide si le stockage est illisible.
func (s *HistoryService) List(ctx context.Context) []domain.HistoryRecord {
	records, err := s.repo.Get(ctx)
	if err != nil {
		s.logStorage(err, "failed to read download history")
		return []domain.HistoryRecord{}
	}
	if records == nil {
		return []domain.HistoryRecord{}
	}
	return records
}

func (s *HistoryService) Append(ctx context.Context, rec domain.HistoryRecord) {
	records, err := s.repo.Get(ctx)
	if err != nil {
		s.logStorage(err, "failed to read download history")
		records = nil
	}
	if err := s.repo.Put(ctx, domain.PrependHistory(records, rec)); err != nil {
		s.logStorage(err, "failed to save download history")
	}
}

func (s *HistoryService) Clear(ctx context.Context) {
	if err := s.repo.Delete(ctx); err != nil {
		s.logStorage(err, "failed to clear download history")
	}
}

func (s *HistoryService) logStorage(err error, msg string) {
	coded := &CodedError{Code: CodeStorage, Message: msg, Err: err}
	s.logger.Warn().Err(coded).Str("code", coded.Code).Msg(msg)
}
