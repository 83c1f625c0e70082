package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// BonCommandeRepository port de persistance des bons de commande (lignes incluses).
// Les réceptions concurrentes contre un même BC se sérialisent sur
// GetByIDForUpdate : deux réceptions partielles ne doivent jamais calculer
// chacune un statut périmé.
type BonCommandeRepository interface {
	Create(ctx context.Context, bc *entity.BonCommande) error
	GetByID(ctx context.Context, id string) (*entity.BonCommande, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.BonCommande, error)
	ListByDemande(ctx context.Context, demandeID string) ([]*entity.BonCommande, error)
	UpdateStatut(ctx context.Context, id, statut string) error
	UpdateAnnulation(ctx context.Context, id, motif string, cancelledAt time.Time) error
	UpdateLigneQuantiteRecue(ctx context.Context, ligneID string, quantiteRecue decimal.Decimal) error
	// CountByYear nombre de BC créés sur l'année (séquence des références).
	CountByYear(ctx context.Context, year int) (int, error)
}
