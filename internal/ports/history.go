package ports

import (
	"context"

	"github.com/neotube/neotube/internal/domain"
)

// HistoryRepository persiste l'historique entier sous une seule clé.
// Get renvoie une liste vide, sans erreur, quand rien n'est encore stocké.
type HistoryRepository interface {
	Get(ctx context.Context) ([]domain.HistoryRecord, error)
	Put(ctx context.Context, records []domain.HistoryRecord) error
	Delete(ctx context.Context) error
}
