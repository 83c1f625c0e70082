// Package catalogue gère le référentiel produits et fournisseurs.
package catalogue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
)

// CatalogueUseCase CRUD du catalogue : produits et fournisseurs.
type CatalogueUseCase struct {
	produitRepo     repository.ProduitRepository
	fournisseurRepo repository.FournisseurRepository
}

// NewCatalogueUseCase construit le cas d'usage.
func NewCatalogueUseCase(produitRepo repository.ProduitRepository, fournisseurRepo repository.FournisseurRepository) *CatalogueUseCase {
	return &CatalogueUseCase{produitRepo: produitRepo, fournisseurRepo: fournisseurRepo}
}

func validerProduit(in dto.ProduitRequest) error {
	if in.Code == "" {
		return domain.ChampInvalide("code", "code requis")
	}
	if in.Nom == "" {
		return domain.ChampInvalide("nom", "nom requis")
	}
	switch in.Type {
	case entity.TypeProduitMP, entity.TypeProduitPF:
	default:
		return domain.ChampInvalide("type", "type inconnu (MP ou PF)")
	}
	switch in.Categorie {
	case entity.CategorieMPPerissable, entity.CategorieMPNonPerissable, entity.CategorieProduitFini:
	default:
		return domain.ChampInvalide("categorie", "catégorie inconnue")
	}
	if in.CoutUnitaire.IsNegative() {
		return domain.ChampInvalide("cout_unitaire", "ne peut pas être négatif")
	}
	return nil
}

// CreateProduit crée un produit. Les seuils incohérents sont refusés.
func (uc *CatalogueUseCase) CreateProduit(ctx context.Context, in dto.ProduitRequest) (*entity.Produit, error) {
	if err := validerProduit(in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Produit{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Nom:           in.Nom,
		Type:          in.Type,
		Categorie:     in.Categorie,
		FournisseurID: in.FournisseurID,
		CoutUnitaire:  in.CoutUnitaire,
		UniteMesure:   in.UniteMesure,
		SeuilAlerte:   in.SeuilAlerte,
		SeuilCommande: in.SeuilCommande,
		Actif:         true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.ValiderSeuils(); err != nil {
		return nil, err
	}
	if err := uc.produitRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduit met à jour un produit existant (le code est immuable).
func (uc *CatalogueUseCase) UpdateProduit(ctx context.Context, id string, in dto.ProduitRequest) (*entity.Produit, error) {
	p, err := uc.produitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nom != "" {
		p.Nom = in.Nom
	}
	if in.Categorie != "" {
		p.Categorie = in.Categorie
	}
	p.FournisseurID = in.FournisseurID
	p.CoutUnitaire = in.CoutUnitaire
	if in.UniteMesure != "" {
		p.UniteMesure = in.UniteMesure
	}
	p.SeuilAlerte = in.SeuilAlerte
	p.SeuilCommande = in.SeuilCommande
	if err := p.ValiderSeuils(); err != nil {
		return nil, err
	}
	if err := uc.produitRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduit charge un produit.
func (uc *CatalogueUseCase) GetProduit(ctx context.Context, id string) (*entity.Produit, error) {
	p, err := uc.produitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ListProduits liste le catalogue, paginé.
func (uc *CatalogueUseCase) ListProduits(ctx context.Context, page dto.PageRequest) ([]*entity.Produit, error) {
	page.DefaultPage()
	return uc.produitRepo.List(ctx, page.Limit, page.Offset)
}

// CreateFournisseur crée un fournisseur.
func (uc *CatalogueUseCase) CreateFournisseur(ctx context.Context, in dto.FournisseurRequest) (*entity.Fournisseur, error) {
	if in.Nom == "" {
		return nil, domain.ChampInvalide("nom", "nom requis")
	}
	now := time.Now()
	f := &entity.Fournisseur{
		ID:                  uuid.New().String(),
		Nom:                 in.Nom,
		Email:               in.Email,
		Telephone:           in.Telephone,
		Adresse:             in.Adresse,
		DelaiLivraisonJours: in.DelaiLivraisonJours,
		Actif:               true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.fournisseurRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListFournisseurs liste les fournisseurs, paginé.
func (uc *CatalogueUseCase) ListFournisseurs(ctx context.Context, page dto.PageRequest) ([]*entity.Fournisseur, error) {
	page.DefaultPage()
	return uc.fournisseurRepo.List(ctx, page.Limit, page.Offset)
}
