package app

import (
	"context"
	"strconv"

	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
)

// MaxStreamsCeiling borne maxConcurrentStreams: au-delà, l'extracteur se fait limiter en amont.
const MaxStreamsCeiling = 64

type SettingsService struct {
	repo ports.SettingsRepository
}

func NewSettingsService(repo ports.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(ctx context.Context) (domain.ServerSettings, error) {
	return s.repo.Get(ctx)
}

// Put refuse une valeur hors de [1, MaxStreamsCeiling] avec invalid_params.
func (s *SettingsService) Put(ctx context.Context, settings domain.ServerSettings) (domain.ServerSettings, error) {
	if n := settings.MaxConcurrentStreams; n < 1 || n > MaxStreamsCeiling {
		return domain.ServerSettings{}, &CodedError{
			Code:    CodeInvalidParams,
			Message: "maxConcurrentStreams must be between 1 and " + strconv.Itoa(MaxStreamsCeiling),
		}
	}
	return s.repo.Put(ctx, settings)
}
