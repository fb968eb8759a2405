package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/neotube/neotube/internal/domain"
)

// HistoryRepository garde l'historique en mémoire, sérialisé en JSON comme le ferait
// un stockage clé/valeur, pour que les copies renvoyées soient indépendantes.
type HistoryRepository struct {
	mu   sync.Mutex
	data []byte
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Get(ctx context.Context) ([]domain.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.data) == 0 {
		return []domain.HistoryRecord{}, nil
	}
	var out []domain.HistoryRecord
	if err := json.Unmarshal(r.data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *HistoryRepository) Put(ctx context.Context, records []domain.HistoryRecord) error {
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data = b
	r.mu.Unlock()
	return nil
}

func (r *HistoryRepository) Delete(ctx context.Context) error {
	r.mu.Lock()
	r.data = nil
	r.mu.Unlock()
	return nil
}
