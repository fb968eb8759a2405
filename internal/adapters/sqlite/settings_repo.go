package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/neotube/neotube/internal/domain"
)

const serverSettingsKey = "server"

type SettingsRepository struct {
	kv jsonTable
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{kv: jsonTable{db: db, table: "settings"}}
}

// Get renvoie les réglages par défaut tant que rien n'est stocké, ou si la valeur est inutilisable.
func (r *SettingsRepository) Get(ctx context.Context) (domain.ServerSettings, error) {
	s := domain.DefaultServerSettings()
	found, err := r.kv.load(ctx, serverSettingsKey, &s)
	switch {
	case errors.Is(err, ErrCorruptValue):
		return domain.DefaultServerSettings(), nil
	case err != nil:
		return domain.ServerSettings{}, err
	case !found || s.MaxConcurrentStreams <= 0:
		return domain.DefaultServerSettings(), nil
	}
	return s, nil
}

func (r *SettingsRepository) Put(ctx context.Context, settings domain.ServerSettings) (domain.ServerSettings, error) {
	if err := r.kv.store(ctx, serverSettingsKey, settings); err != nil {
		return domain.ServerSettings{}, err
	}
	return r.Get(ctx)
}
