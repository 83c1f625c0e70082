package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlefevre/Laiterie-api/internal/application/appro"
	"github.com/mlefevre/Laiterie-api/internal/application/stock"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

var _ appro.TxRunner = (*TxRunner)(nil)
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner exécute des callbacks dans une transaction PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construit le runner avec le pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunAppro démarre une transaction, exécute fn avec les repos appro attachés
// à la tx, puis Commit ou Rollback.
func (r *TxRunner) RunAppro(ctx context.Context, fn func(
	demandeRepo repository.DemandeRepository,
	bcRepo repository.BonCommandeRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewDemandeRepository(tx), NewBonCommandeRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReception transaction du réconciliateur de réception : BC, demande,
// lots, grand livre et réceptions committés ensemble, ou rien.
func (r *TxRunner) RunReception(ctx context.Context, fn func(
	bcRepo repository.BonCommandeRepository,
	demandeRepo repository.DemandeRepository,
	lotRepo repository.LotRepository,
	mouvementRepo repository.MouvementStockRepository,
	receptionRepo repository.ReceptionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewBonCommandeRepository(tx),
		NewDemandeRepository(tx),
		NewLotRepository(tx),
		NewMouvementStockRepository(tx),
		NewReceptionRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunStock transaction des opérations de stock : lots, grand livre et
// ajustements/pertes.
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	mouvementRepo repository.MouvementStockRepository,
	ajustementRepo repository.AjustementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewLotRepository(tx), NewMouvementStockRepository(tx), NewAjustementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
