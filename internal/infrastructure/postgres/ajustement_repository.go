package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

var _ repository.AjustementRepository = (*AjustementRepo)(nil)

// AjustementRepo implémentation PostgreSQL des ajustements d'inventaire et
// des déclarations de perte.
type AjustementRepo struct {
	q Querier
}

// NewAjustementRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewAjustementRepository(q Querier) *AjustementRepo {
	return &AjustementRepo{q: q}
}

const ajustementColonnes = `id, produit_id, quantite_theorique, quantite_physique, ecart, ecart_pct,
	valeur, niveau_risque, statut, motif, photos_preuve, suspect,
	compte_par, valide_par, second_valide_par, created_at, valide_at`

// CreateAjustement persiste un ajustement.
func (r *AjustementRepo) CreateAjustement(ctx context.Context, a *entity.AjustementInventaire) error {
	query := `
		INSERT INTO ajustements_inventaire (` + ajustementColonnes + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	if _, err := r.q.Exec(ctx, query,
		a.ID, a.ProduitID, a.QuantiteTheorique, a.QuantitePhysique, a.Ecart, a.EcartPct,
		a.Valeur, a.NiveauRisque, a.Statut, a.Motif, a.PhotosPreuve, a.Suspect,
		nilSiVide(a.ComptePar), nilSiVide(a.ValidePar), nilSiVide(a.SecondValidePar),
		a.CreatedAt, a.ValideAt,
	); err != nil {
		return fmt.Errorf("create ajustement: %w", err)
	}
	return nil
}

func scanAjustement(row pgx.Row) (*entity.AjustementInventaire, error) {
	var a entity.AjustementInventaire
	var comptePar, validePar, secondValidePar *string
	err := row.Scan(
		&a.ID, &a.ProduitID, &a.QuantiteTheorique, &a.QuantitePhysique, &a.Ecart, &a.EcartPct,
		&a.Valeur, &a.NiveauRisque, &a.Statut, &a.Motif, &a.PhotosPreuve, &a.Suspect,
		&comptePar, &validePar, &secondValidePar, &a.CreatedAt, &a.ValideAt,
	)
	if err != nil {
		return nil, err
	}
	if comptePar != nil {
		a.ComptePar = *comptePar
	}
	if validePar != nil {
		a.ValidePar = *validePar
	}
	if secondValidePar != nil {
		a.SecondValidePar = *secondValidePar
	}
	return &a, nil
}

// GetAjustement charge un ajustement. nil si absent.
func (r *AjustementRepo) GetAjustement(ctx context.Context, id string) (*entity.AjustementInventaire, error) {
	return r.getAjustement(ctx, id, false)
}

// GetAjustementForUpdate charge l'ajustement en verrouillant sa ligne :
// deux validations concurrentes du même ajustement se sérialisent ici.
func (r *AjustementRepo) GetAjustementForUpdate(ctx context.Context, id string) (*entity.AjustementInventaire, error) {
	return r.getAjustement(ctx, id, true)
}

func (r *AjustementRepo) getAjustement(ctx context.Context, id string, forUpdate bool) (*entity.AjustementInventaire, error) {
	query := `SELECT ` + ajustementColonnes + ` FROM ajustements_inventaire WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	a, err := scanAjustement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ajustement: %w", err)
	}
	return a, nil
}

// UpdateAjustement persiste statut, validateurs et date de validation.
func (r *AjustementRepo) UpdateAjustement(ctx context.Context, a *entity.AjustementInventaire) error {
	if _, err := r.q.Exec(ctx, `
		UPDATE ajustements_inventaire
		SET statut = $2, valide_par = $3, second_valide_par = $4, valide_at = $5
		WHERE id = $1`,
		a.ID, a.Statut, nilSiVide(a.ValidePar), nilSiVide(a.SecondValidePar), a.ValideAt,
	); err != nil {
		return fmt.Errorf("update ajustement: %w", err)
	}
	return nil
}

// DerniereDeclaration date de la dernière déclaration de l'utilisateur sur le
// produit. nil si aucune.
func (r *AjustementRepo) DerniereDeclaration(ctx context.Context, userID, produitID string) (*time.Time, error) {
	var t time.Time
	err := r.q.QueryRow(ctx, `
		SELECT created_at FROM ajustements_inventaire
		WHERE compte_par = $1 AND produit_id = $2
		ORDER BY created_at DESC LIMIT 1`, userID, produitID,
	).Scan(&t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("dernière déclaration: %w", err)
	}
	return &t, nil
}

// EcartsRecents les n derniers écarts du produit, du plus ancien au plus récent.
func (r *AjustementRepo) EcartsRecents(ctx context.Context, produitID string, n int) ([]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ecart FROM (
			SELECT ecart, created_at FROM ajustements_inventaire
			WHERE produit_id = $1 ORDER BY created_at DESC LIMIT $2
		) t ORDER BY created_at ASC`, produitID, n)
	if err != nil {
		return nil, fmt.Errorf("écarts récents: %w", err)
	}
	defer rows.Close()
	var ecarts []decimal.Decimal
	for rows.Next() {
		var e decimal.Decimal
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan écart: %w", err)
		}
		ecarts = append(ecarts, e)
	}
	return ecarts, rows.Err()
}

// CreatePerte persiste une déclaration de perte.
func (r *AjustementRepo) CreatePerte(ctx context.Context, p *entity.DeclarationPerte) error {
	lotID := (*string)(nil)
	if p.LotID != "" {
		lotID = &p.LotID
	}
	if _, err := r.q.Exec(ctx, `
		INSERT INTO declarations_perte (id, type_produit, produit_id, lot_id, quantite, motif,
			description, photos_preuve, declare_par, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.TypeProduit, p.ProduitID, lotID, p.Quantite, p.Motif,
		p.Description, p.PhotosPreuve, p.DeclarePar, p.CreatedAt,
	); err != nil {
		return fmt.Errorf("create perte: %w", err)
	}
	return nil
}

func nilSiVide(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
