package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

var _ repository.DemandeRepository = (*DemandeRepo)(nil)

// DemandeRepo implémentation PostgreSQL (utilisable avec pool ou tx).
type DemandeRepo struct {
	q Querier
}

// NewDemandeRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewDemandeRepository(q Querier) *DemandeRepo {
	return &DemandeRepo{q: q}
}

// Create persiste la demande et ses lignes.
func (r *DemandeRepo) Create(ctx context.Context, d *entity.Demande) error {
	query := `
		INSERT INTO demandes (id, reference, statut, demandeur_id, justification, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query,
		d.ID, d.Reference, d.Statut, d.DemandeurID, d.Justification, d.CreatedAt, d.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create demande: %w", err)
	}
	for _, l := range d.Lignes {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO demande_lignes (id, demande_id, produit_id, quantite, note)
			VALUES ($1, $2, $3, $4, $5)`,
			l.ID, l.DemandeID, l.ProduitID, l.Quantite, l.Note,
		); err != nil {
			return fmt.Errorf("create demande ligne: %w", err)
		}
	}
	return nil
}

// GetByID charge une demande avec ses lignes. nil si absente.
func (r *DemandeRepo) GetByID(ctx context.Context, id string) (*entity.Demande, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate charge la demande en verrouillant sa ligne (SELECT FOR UPDATE).
func (r *DemandeRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Demande, error) {
	return r.get(ctx, id, true)
}

func (r *DemandeRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Demande, error) {
	query := `
		SELECT id, reference, statut, demandeur_id, justification, created_at, updated_at
		FROM demandes WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var d entity.Demande
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Reference, &d.Statut, &d.DemandeurID, &d.Justification, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get demande: %w", err)
	}
	if err := r.chargerLignes(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DemandeRepo) chargerLignes(ctx context.Context, d *entity.Demande) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, demande_id, produit_id, quantite, note
		FROM demande_lignes WHERE demande_id = $1 ORDER BY id`, d.ID)
	if err != nil {
		return fmt.Errorf("lignes demande: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.DemandeLigne
		if err := rows.Scan(&l.ID, &l.DemandeID, &l.ProduitID, &l.Quantite, &l.Note); err != nil {
			return fmt.Errorf("scan ligne demande: %w", err)
		}
		d.Lignes = append(d.Lignes, l)
	}
	return rows.Err()
}

// UpdateStatut met à jour le statut (et la justification s'il y en a une).
func (r *DemandeRepo) UpdateStatut(ctx context.Context, id, statut, justification string) error {
	query := `UPDATE demandes SET statut = $2, updated_at = now() WHERE id = $1`
	args := []any{id, statut}
	if justification != "" {
		query = `UPDATE demandes SET statut = $2, justification = $3, updated_at = now() WHERE id = $1`
		args = append(args, justification)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update statut demande: %w", err)
	}
	return nil
}

// List liste les demandes, filtrées par statut si non vide.
func (r *DemandeRepo) List(ctx context.Context, statut string, limit, offset int) ([]*entity.Demande, error) {
	query := `
		SELECT id, reference, statut, demandeur_id, justification, created_at, updated_at
		FROM demandes`
	args := []any{}
	pos := 1
	if statut != "" {
		query += fmt.Sprintf(" WHERE statut = $%d", pos)
		args = append(args, statut)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list demandes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Demande
	for rows.Next() {
		var d entity.Demande
		if err := rows.Scan(&d.ID, &d.Reference, &d.Statut, &d.DemandeurID, &d.Justification, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan demande: %w", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, d := range list {
		if err := r.chargerLignes(ctx, d); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// CountByYear nombre de demandes créées sur l'année (séquence des références).
func (r *DemandeRepo) CountByYear(ctx context.Context, year int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM demandes WHERE date_part('year', created_at) = $1`, year,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count demandes: %w", err)
	}
	return n, nil
}
