package repository

import (
	"context"

	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// ProduitRepository port de persistance du catalogue produits.
type ProduitRepository interface {
	Create(ctx context.Context, p *entity.Produit) error
	Update(ctx context.Context, p *entity.Produit) error
	GetByID(ctx context.Context, id string) (*entity.Produit, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Produit, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Produit, error)
}
