package repository

import (
	"context"

	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// DemandeRepository port de persistance des demandes d'approvisionnement.
// GetByIDForUpdate verrouille la ligne (SELECT FOR UPDATE) : obligatoire avant
// toute transition de statut pour sérialiser les écritures concurrentes.
type DemandeRepository interface {
	Create(ctx context.Context, d *entity.Demande) error
	GetByID(ctx context.Context, id string) (*entity.Demande, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Demande, error)
	UpdateStatut(ctx context.Context, id, statut, justification string) error
	List(ctx context.Context, statut string, limit, offset int) ([]*entity.Demande, error)
	// CountByYear nombre de demandes créées sur l'année (séquence des références).
	CountByYear(ctx context.Context, year int) (int, error)
}
