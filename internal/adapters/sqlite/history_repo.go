package sqlite

import (
	"context"
	"database/sql"

	"github.com/neotube/neotube/internal/domain"
)

// HistoryKey est la clé unique sous laquelle tout l'historique est stocké (tableau JSON).
const HistoryKey = "neotube-download-history"

type HistoryRepository struct {
	kv jsonTable
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{kv: jsonTable{db: db, table: "kv"}}
}

// Get renvoie une liste vide si rien n'est stocké, ErrCorruptValue si la valeur est illisible.
func (r *HistoryRepository) Get(ctx context.Context) ([]domain.HistoryRecord, error) {
	var out []domain.HistoryRecord
	if _, err := r.kv.load(ctx, HistoryKey, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.HistoryRecord{}
	}
	return out, nil
}

func (r *HistoryRepository) Put(ctx context.Context, records []domain.HistoryRecord) error {
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	return r.kv.store(ctx, HistoryKey, records)
}

func (r *HistoryRepository) Delete(ctx context.Context) error {
	return r.kv.remove(ctx, HistoryKey)
}
