package ports

import (
	"context"

	"github.com/neotube/neotube/internal/domain"
)

type SettingsRepository interface {
	Get(ctx context.Context) (domain.ServerSettings, error)
	Put(ctx context.Context, settings domain.ServerSettings) (domain.ServerSettings, error)
}
