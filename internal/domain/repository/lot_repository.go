package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// LotRepository port de persistance des lots de stock.
// Les variantes ForUpdate verrouillent les lignes : la consommation FIFO
// concurrente d'un même produit doit se sérialiser par produit.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	// GetByNumero retourne nil (sans erreur) si aucun lot ne porte ce numéro pour ce produit.
	GetByNumero(ctx context.Context, produitID, numeroLot string) (*entity.Lot, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	ListByProduitForUpdate(ctx context.Context, produitID string) ([]*entity.Lot, error)
	UpdateQuantites(ctx context.Context, lot *entity.Lot) error
	// SumRestanteByProduit stock théorique : somme des restants des lots actifs.
	SumRestanteByProduit(ctx context.Context, produitID string) (decimal.Decimal, error)
}
