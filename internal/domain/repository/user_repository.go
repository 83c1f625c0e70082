package repository

import (
	"context"

	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// UserRepository port de persistance des utilisateurs.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
