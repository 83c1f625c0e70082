package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

var _ repository.ReceptionRepository = (*ReceptionRepo)(nil)

// ReceptionRepo implémentation PostgreSQL des en-têtes de réception.
type ReceptionRepo struct {
	q Querier
}

// NewReceptionRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewReceptionRepository(q Querier) *ReceptionRepo {
	return &ReceptionRepo{q: q}
}

// Create persiste l'en-tête de réception. La contrainte unique
// (bon_commande_id, idempotency_key) ferme la course entre deux rejeux.
func (r *ReceptionRepo) Create(ctx context.Context, rec *entity.Reception) error {
	key := (*string)(nil)
	if rec.IdempotencyKey != "" {
		key = &rec.IdempotencyKey
	}
	if _, err := r.q.Exec(ctx, `
		INSERT INTO receptions (id, reference, bon_commande_id, numero_bl, date_reception,
			idempotency_key, statut_resultant, mouvements_crees, demande_cloturee, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Reference, rec.BonCommandeID, rec.NumeroBL, rec.DateReception,
		key, rec.StatutResultant, rec.MouvementsCrees, rec.DemandeCloturee, rec.CreatedBy, rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("create réception: %w", err)
	}
	return nil
}

// GetByIdempotencyKey retourne nil (sans erreur) si la clé n'a jamais été vue
// pour ce BC.
func (r *ReceptionRepo) GetByIdempotencyKey(ctx context.Context, bonCommandeID, key string) (*entity.Reception, error) {
	var rec entity.Reception
	var storedKey *string
	err := r.q.QueryRow(ctx, `
		SELECT id, reference, bon_commande_id, numero_bl, date_reception,
			idempotency_key, statut_resultant, mouvements_crees, demande_cloturee, created_by, created_at
		FROM receptions WHERE bon_commande_id = $1 AND idempotency_key = $2`,
		bonCommandeID, key,
	).Scan(&rec.ID, &rec.Reference, &rec.BonCommandeID, &rec.NumeroBL, &rec.DateReception,
		&storedKey, &rec.StatutResultant, &rec.MouvementsCrees, &rec.DemandeCloturee, &rec.CreatedBy, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get réception: %w", err)
	}
	if storedKey != nil {
		rec.IdempotencyKey = *storedKey
	}
	return &rec, nil
}

// CountByYear nombre de réceptions enregistrées sur l'année (séquence des références).
func (r *ReceptionRepo) CountByYear(ctx context.Context, year int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM receptions WHERE date_part('year', created_at) = $1`, year,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count réceptions: %w", err)
	}
	return n, nil
}
