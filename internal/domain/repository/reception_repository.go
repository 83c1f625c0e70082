package repository

import (
	"context"

	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// ReceptionRepository port de persistance des en-têtes de réception.
type ReceptionRepository interface {
	Create(ctx context.Context, r *entity.Reception) error
	// GetByIdempotencyKey retourne nil (sans erreur) si la clé n'a jamais été vue
	// pour ce BC. Non-nil = rejeu : renvoyer le snapshot, ne rien re-créditer.
	GetByIdempotencyKey(ctx context.Context, bonCommandeID, key string) (*entity.Reception, error)
	CountByYear(ctx context.Context, year int) (int, error)
}
