package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// MouvementStockRepository port du grand livre de stock (append-only, jamais
// de mise à jour ni de suppression).
type MouvementStockRepository interface {
	Create(ctx context.Context, m *entity.MouvementStock) error
	ListByProduit(ctx context.Context, produitID string, from, to *time.Time, limit, offset int) ([]*entity.MouvementStock, error)
	// SoldeByProduit somme signée des mouvements (IN positif, OUT négatif) :
	// doit égaler la somme des restants des lots actifs du produit.
	SoldeByProduit(ctx context.Context, produitID string) (decimal.Decimal, error)
}
