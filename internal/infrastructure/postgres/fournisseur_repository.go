package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

var _ repository.FournisseurRepository = (*FournisseurRepo)(nil)

// FournisseurRepo implémentation PostgreSQL des fournisseurs.
type FournisseurRepo struct {
	q Querier
}

// NewFournisseurRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewFournisseurRepository(q Querier) *FournisseurRepo {
	return &FournisseurRepo{q: q}
}

// Create persiste un fournisseur.
func (r *FournisseurRepo) Create(ctx context.Context, f *entity.Fournisseur) error {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO fournisseurs (id, nom, email, telephone, adresse, delai_livraison_jours, actif, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID, f.Nom, f.Email, f.Telephone, f.Adresse, f.DelaiLivraisonJours, f.Actif, f.CreatedAt, f.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create fournisseur: %w", err)
	}
	return nil
}

// GetByID charge un fournisseur. nil si absent.
func (r *FournisseurRepo) GetByID(ctx context.Context, id string) (*entity.Fournisseur, error) {
	var f entity.Fournisseur
	err := r.q.QueryRow(ctx, `
		SELECT id, nom, email, telephone, adresse, delai_livraison_jours, actif, created_at, updated_at
		FROM fournisseurs WHERE id = $1`, id,
	).Scan(&f.ID, &f.Nom, &f.Email, &f.Telephone, &f.Adresse, &f.DelaiLivraisonJours, &f.Actif, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fournisseur: %w", err)
	}
	return &f, nil
}

// List liste les fournisseurs, paginé.
func (r *FournisseurRepo) List(ctx context.Context, limit, offset int) ([]*entity.Fournisseur, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, nom, email, telephone, adresse, delai_livraison_jours, actif, created_at, updated_at
		FROM fournisseurs ORDER BY nom LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list fournisseurs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Fournisseur
	for rows.Next() {
		var f entity.Fournisseur
		if err := rows.Scan(&f.ID, &f.Nom, &f.Email, &f.Telephone, &f.Adresse, &f.DelaiLivraisonJours, &f.Actif, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fournisseur: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
