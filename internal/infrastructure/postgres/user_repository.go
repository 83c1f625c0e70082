package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implémentation PostgreSQL des utilisateurs.
type UserRepo struct {
	q Querier
}

// NewUserRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un utilisateur. ErrEmailDejaUtilise si l'email est pris.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO users (id, email, nom, password_hash, role, actif, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Nom, u.PasswordHash, u.Role, u.Actif, u.CreatedAt, u.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailDejaUtilise
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID charge un utilisateur. nil si absent.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByEmail charge un utilisateur par email. nil si absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *UserRepo) get(ctx context.Context, where string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, `
		SELECT id, email, nom, password_hash, role, actif, created_at, updated_at
		FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.Nom, &u.PasswordHash, &u.Role, &u.Actif, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
