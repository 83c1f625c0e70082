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

var _ repository.ProduitRepository = (*ProduitRepo)(nil)

// ProduitRepo implémentation PostgreSQL du catalogue produits.
type ProduitRepo struct {
	q Querier
}

// NewProduitRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewProduitRepository(q Querier) *ProduitRepo {
	return &ProduitRepo{q: q}
}

const produitColonnes = `id, code, nom, type, categorie, fournisseur_id, cout_unitaire,
	unite_mesure, seuil_alerte, seuil_commande, actif, created_at, updated_at`

// Create persiste un produit. ErrDuplicate si le code est déjà pris.
func (r *ProduitRepo) Create(ctx context.Context, p *entity.Produit) error {
	query := `
		INSERT INTO produits (` + produitColonnes + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	fournisseurID := (*string)(nil)
	if p.FournisseurID != "" {
		fournisseurID = &p.FournisseurID
	}
	if _, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Nom, p.Type, p.Categorie, fournisseurID, p.CoutUnitaire,
		p.UniteMesure, p.SeuilAlerte, p.SeuilCommande, p.Actif, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create produit: %w", err)
	}
	return nil
}

// Update met à jour les champs mutables du produit.
func (r *ProduitRepo) Update(ctx context.Context, p *entity.Produit) error {
	fournisseurID := (*string)(nil)
	if p.FournisseurID != "" {
		fournisseurID = &p.FournisseurID
	}
	if _, err := r.q.Exec(ctx, `
		UPDATE produits SET nom = $2, categorie = $3, fournisseur_id = $4, cout_unitaire = $5,
			unite_mesure = $6, seuil_alerte = $7, seuil_commande = $8, actif = $9, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Nom, p.Categorie, fournisseurID, p.CoutUnitaire,
		p.UniteMesure, p.SeuilAlerte, p.SeuilCommande, p.Actif,
	); err != nil {
		return fmt.Errorf("update produit: %w", err)
	}
	return nil
}

func scanProduit(row pgx.Row) (*entity.Produit, error) {
	var p entity.Produit
	var fournisseurID *string
	err := row.Scan(
		&p.ID, &p.Code, &p.Nom, &p.Type, &p.Categorie, &fournisseurID, &p.CoutUnitaire,
		&p.UniteMesure, &p.SeuilAlerte, &p.SeuilCommande, &p.Actif, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fournisseurID != nil {
		p.FournisseurID = *fournisseurID
	}
	return &p, nil
}

// GetByID charge un produit. nil si absent.
func (r *ProduitRepo) GetByID(ctx context.Context, id string) (*entity.Produit, error) {
	p, err := scanProduit(r.q.QueryRow(ctx,
		`SELECT `+produitColonnes+` FROM produits WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get produit: %w", err)
	}
	return p, nil
}

// GetByIDs charge plusieurs produits, indexés par ID. Les IDs inconnus sont
// simplement absents de la map.
func (r *ProduitRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Produit, error) {
	out := make(map[string]*entity.Produit, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+produitColonnes+` FROM produits WHERE id = any($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get produits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan produit: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// List liste le catalogue, paginé.
func (r *ProduitRepo) List(ctx context.Context, limit, offset int) ([]*entity.Produit, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+produitColonnes+` FROM produits ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list produits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Produit
	for rows.Next() {
		p, err := scanProduit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan produit: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
