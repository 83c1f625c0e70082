package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implémentation PostgreSQL (utilisable avec pool ou tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColonnes = `id, numero_lot, produit_id, fournisseur_id, quantite_initiale,
	quantite_restante, date_fabrication, date_expiration, statut, created_at, updated_at`

// Create persiste un lot.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColonnes + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	fournisseurID := (*string)(nil)
	if lot.FournisseurID != "" {
		fournisseurID = &lot.FournisseurID
	}
	if _, err := r.q.Exec(ctx, query,
		lot.ID, lot.NumeroLot, lot.ProduitID, fournisseurID, lot.QuantiteInitiale,
		lot.QuantiteRestante, lot.DateFabrication, lot.DateExpiration, lot.Statut,
		lot.CreatedAt, lot.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create lot: numéro déjà pris: %w", err)
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	var fournisseurID *string
	err := row.Scan(
		&l.ID, &l.NumeroLot, &l.ProduitID, &fournisseurID, &l.QuantiteInitiale,
		&l.QuantiteRestante, &l.DateFabrication, &l.DateExpiration, &l.Statut,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fournisseurID != nil {
		l.FournisseurID = *fournisseurID
	}
	return &l, nil
}

// GetByNumero retourne nil (sans erreur) si aucun lot ne porte ce numéro pour le produit.
func (r *LotRepo) GetByNumero(ctx context.Context, produitID, numeroLot string) (*entity.Lot, error) {
	lot, err := scanLot(r.q.QueryRow(ctx,
		`SELECT `+lotColonnes+` FROM lots WHERE produit_id = $1 AND numero_lot = $2 FOR UPDATE`,
		produitID, numeroLot))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot par numéro: %w", err)
	}
	return lot, nil
}

// GetByIDForUpdate charge un lot en verrouillant sa ligne.
func (r *LotRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	lot, err := scanLot(r.q.QueryRow(ctx,
		`SELECT `+lotColonnes+` FROM lots WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// ListByProduitForUpdate charge et verrouille tous les lots d'un produit.
// Sérialise la consommation FIFO concurrente du même produit.
func (r *LotRepo) ListByProduitForUpdate(ctx context.Context, produitID string) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+lotColonnes+` FROM lots WHERE produit_id = $1 ORDER BY created_at FOR UPDATE`,
		produitID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// UpdateQuantites persiste quantités et statut du lot.
func (r *LotRepo) UpdateQuantites(ctx context.Context, lot *entity.Lot) error {
	if _, err := r.q.Exec(ctx, `
		UPDATE lots SET quantite_initiale = $2, quantite_restante = $3, statut = $4, updated_at = now()
		WHERE id = $1`,
		lot.ID, lot.QuantiteInitiale, lot.QuantiteRestante, lot.Statut,
	); err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	return nil
}

// SumRestanteByProduit stock théorique : somme des restants des lots actifs.
func (r *LotRepo) SumRestanteByProduit(ctx context.Context, produitID string) (decimal.Decimal, error) {
	var somme decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT coalesce(sum(quantite_restante), 0) FROM lots
		WHERE produit_id = $1 AND statut <> $2`,
		produitID, entity.LotStatutConsomme,
	).Scan(&somme)
	if err != nil {
		return decimal.Zero, fmt.Errorf("somme restante: %w", err)
	}
	return somme, nil
}
