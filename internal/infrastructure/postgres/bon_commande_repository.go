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

var _ repository.BonCommandeRepository = (*BonCommandeRepo)(nil)

// BonCommandeRepo implémentation PostgreSQL (utilisable avec pool ou tx).
type BonCommandeRepo struct {
	q Querier
}

// NewBonCommandeRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewBonCommandeRepository(q Querier) *BonCommandeRepo {
	return &BonCommandeRepo{q: q}
}

// Create persiste le BC et ses lignes.
func (r *BonCommandeRepo) Create(ctx context.Context, bc *entity.BonCommande) error {
	query := `
		INSERT INTO bons_commande (id, reference, demande_id, fournisseur_id, statut,
			adresse_livraison, date_livraison_prevue, motif_annulation, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.q.Exec(ctx, query,
		bc.ID, bc.Reference, bc.DemandeID, bc.FournisseurID, bc.Statut,
		bc.AdresseLivraison, bc.DateLivraisonPrevue, bc.MotifAnnulation, bc.CancelledAt,
		bc.CreatedAt, bc.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create bon de commande: référence déjà prise: %w", err)
		}
		return fmt.Errorf("create bon de commande: %w", err)
	}
	for _, l := range bc.Lignes {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO bon_commande_lignes (id, bon_commande_id, produit_id, quantite, quantite_recue, prix_unitaire)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.BonCommandeID, l.ProduitID, l.Quantite, l.QuantiteRecue, l.PrixUnitaire,
		); err != nil {
			return fmt.Errorf("create ligne bon de commande: %w", err)
		}
	}
	return nil
}

// GetByID charge un BC avec ses lignes. nil si absent.
func (r *BonCommandeRepo) GetByID(ctx context.Context, id string) (*entity.BonCommande, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate charge le BC en verrouillant sa ligne (SELECT FOR UPDATE).
// Les réceptions concurrentes du même BC se sérialisent ici.
func (r *BonCommandeRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.BonCommande, error) {
	return r.get(ctx, id, true)
}

func (r *BonCommandeRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.BonCommande, error) {
	query := `
		SELECT id, reference, demande_id, fournisseur_id, statut,
			adresse_livraison, date_livraison_prevue, motif_annulation, cancelled_at, created_at, updated_at
		FROM bons_commande WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var bc entity.BonCommande
	err := r.q.QueryRow(ctx, query, id).Scan(
		&bc.ID, &bc.Reference, &bc.DemandeID, &bc.FournisseurID, &bc.Statut,
		&bc.AdresseLivraison, &bc.DateLivraisonPrevue, &bc.MotifAnnulation, &bc.CancelledAt,
		&bc.CreatedAt, &bc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bon de commande: %w", err)
	}
	if err := r.chargerLignes(ctx, &bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

func (r *BonCommandeRepo) chargerLignes(ctx context.Context, bc *entity.BonCommande) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, bon_commande_id, produit_id, quantite, quantite_recue, prix_unitaire
		FROM bon_commande_lignes WHERE bon_commande_id = $1 ORDER BY id`, bc.ID)
	if err != nil {
		return fmt.Errorf("lignes bon de commande: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.BonCommandeLigne
		if err := rows.Scan(&l.ID, &l.BonCommandeID, &l.ProduitID, &l.Quantite, &l.QuantiteRecue, &l.PrixUnitaire); err != nil {
			return fmt.Errorf("scan ligne bon de commande: %w", err)
		}
		bc.Lignes = append(bc.Lignes, l)
	}
	return rows.Err()
}

// ListByDemande tous les BC issus d'une demande, lignes incluses.
func (r *BonCommandeRepo) ListByDemande(ctx context.Context, demandeID string) ([]*entity.BonCommande, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, reference, demande_id, fournisseur_id, statut,
			adresse_livraison, date_livraison_prevue, motif_annulation, cancelled_at, created_at, updated_at
		FROM bons_commande WHERE demande_id = $1 ORDER BY reference`, demandeID)
	if err != nil {
		return nil, fmt.Errorf("list bons de commande: %w", err)
	}
	defer rows.Close()
	var list []*entity.BonCommande
	for rows.Next() {
		var bc entity.BonCommande
		if err := rows.Scan(&bc.ID, &bc.Reference, &bc.DemandeID, &bc.FournisseurID, &bc.Statut,
			&bc.AdresseLivraison, &bc.DateLivraisonPrevue, &bc.MotifAnnulation, &bc.CancelledAt,
			&bc.CreatedAt, &bc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bon de commande: %w", err)
		}
		list = append(list, &bc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, bc := range list {
		if err := r.chargerLignes(ctx, bc); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateStatut met à jour le statut du BC.
func (r *BonCommandeRepo) UpdateStatut(ctx context.Context, id, statut string) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE bons_commande SET statut = $2, updated_at = now() WHERE id = $1`, id, statut,
	); err != nil {
		return fmt.Errorf("update statut bon de commande: %w", err)
	}
	return nil
}

// UpdateAnnulation enregistre le motif et la date d'annulation.
func (r *BonCommandeRepo) UpdateAnnulation(ctx context.Context, id, motif string, cancelledAt time.Time) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE bons_commande SET motif_annulation = $2, cancelled_at = $3, updated_at = now() WHERE id = $1`,
		id, motif, cancelledAt,
	); err != nil {
		return fmt.Errorf("update annulation bon de commande: %w", err)
	}
	return nil
}

// UpdateLigneQuantiteRecue met à jour le cumul reçu d'une ligne.
func (r *BonCommandeRepo) UpdateLigneQuantiteRecue(ctx context.Context, ligneID string, quantiteRecue decimal.Decimal) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE bon_commande_lignes SET quantite_recue = $2 WHERE id = $1`, ligneID, quantiteRecue,
	); err != nil {
		return fmt.Errorf("update quantité reçue: %w", err)
	}
	return nil
}

// CountByYear nombre de BC créés sur l'année (séquence des références).
func (r *BonCommandeRepo) CountByYear(ctx context.Context, year int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM bons_commande WHERE date_part('year', created_at) = $1`, year,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bons de commande: %w", err)
	}
	return n, nil
}
