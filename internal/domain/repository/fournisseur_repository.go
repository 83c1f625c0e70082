package repository

import (
	"context"

	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// FournisseurRepository port de persistance des fournisseurs.
type FournisseurRepository interface {
	Create(ctx context.Context, f *entity.Fournisseur) error
	GetByID(ctx context.Context, id string) (*entity.Fournisseur, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Fournisseur, error)
}
