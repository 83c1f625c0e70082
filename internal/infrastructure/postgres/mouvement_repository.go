package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

var _ repository.MouvementStockRepository = (*MouvementStockRepo)(nil)

// MouvementStockRepo grand livre de stock sur PostgreSQL. Append-only :
// aucun UPDATE ni DELETE n'existe ici, volontairement.
type MouvementStockRepo struct {
	q Querier
}

// NewMouvementStockRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewMouvementStockRepository(q Querier) *MouvementStockRepo {
	return &MouvementStockRepo{q: q}
}

// Create insère une écriture au grand livre.
func (r *MouvementStockRepo) Create(ctx context.Context, m *entity.MouvementStock) error {
	query := `
		INSERT INTO mouvements_stock (id, type, origine, type_produit, produit_id, lot_id,
			quantite, reference, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.Origine, m.TypeProduit, m.ProduitID, m.LotID,
		m.Quantite, m.Reference, m.Note, m.CreatedBy, m.CreatedAt,
	); err != nil {
		return fmt.Errorf("create mouvement: %w", err)
	}
	return nil
}

// ListByProduit liste les mouvements d'un produit sur une plage de dates.
func (r *MouvementStockRepo) ListByProduit(ctx context.Context, produitID string, from, to *time.Time, limit, offset int) ([]*entity.MouvementStock, error) {
	query := `
		SELECT id, type, origine, type_produit, produit_id, lot_id, quantite, reference, note, created_by, created_at
		FROM mouvements_stock WHERE produit_id = $1`
	args := []any{produitID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mouvements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MouvementStock
	for rows.Next() {
		var m entity.MouvementStock
		if err := rows.Scan(&m.ID, &m.Type, &m.Origine, &m.TypeProduit, &m.ProduitID, &m.LotID,
			&m.Quantite, &m.Reference, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mouvement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SoldeByProduit somme signée des mouvements (IN positif, OUT négatif).
func (r *MouvementStockRepo) SoldeByProduit(ctx context.Context, produitID string) (decimal.Decimal, error) {
	var solde decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT coalesce(sum(CASE WHEN type = $2 THEN quantite ELSE -quantite END), 0)
		FROM mouvements_stock WHERE produit_id = $1`,
		produitID, entity.MouvementTypeIN,
	).Scan(&solde)
	if err != nil {
		return decimal.Zero, fmt.Errorf("solde produit: %w", err)
	}
	return solde, nil
}
