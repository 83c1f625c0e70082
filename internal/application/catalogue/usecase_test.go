package catalogue_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefevre/Laiterie-api/internal/application/catalogue"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

type memProduitRepo struct{ produits map[string]*entity.Produit }

func (r *memProduitRepo) Create(_ context.Context, p *entity.Produit) error {
	r.produits[p.ID] = p
	return nil
}

func (r *memProduitRepo) Update(_ context.Context, p *entity.Produit) error {
	r.produits[p.ID] = p
	return nil
}

func (r *memProduitRepo) GetByID(_ context.Context, id string) (*entity.Produit, error) {
	return r.produits[id], nil
}

func (r *memProduitRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Produit, error) {
	out := map[string]*entity.Produit{}
	for _, id := range ids {
		if p, ok := r.produits[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *memProduitRepo) List(_ context.Context, _, _ int) ([]*entity.Produit, error) {
	out := []*entity.Produit{}
	for _, p := range r.produits {
		out = append(out, p)
	}
	return out, nil
}

type memFournisseurRepo struct{ fournisseurs map[string]*entity.Fournisseur }

func (r *memFournisseurRepo) Create(_ context.Context, f *entity.Fournisseur) error {
	r.fournisseurs[f.ID] = f
	return nil
}

func (r *memFournisseurRepo) GetByID(_ context.Context, id string) (*entity.Fournisseur, error) {
	return r.fournisseurs[id], nil
}

func (r *memFournisseurRepo) List(_ context.Context, _, _ int) ([]*entity.Fournisseur, error) {
	out := []*entity.Fournisseur{}
	for _, f := range r.fournisseurs {
		out = append(out, f)
	}
	return out, nil
}

func newCatalogueUC() (*catalogue.CatalogueUseCase, *memProduitRepo) {
	produits := &memProduitRepo{produits: map[string]*entity.Produit{}}
	fournisseurs := &memFournisseurRepo{fournisseurs: map[string]*entity.Fournisseur{}}
	return catalogue.NewCatalogueUseCase(produits, fournisseurs), produits
}

func produitValide() dto.ProduitRequest {
	return dto.ProduitRequest{
		Code:          "MP-LAIT-01",
		Nom:           "Lait cru entier",
		Type:          entity.TypeProduitMP,
		Categorie:     entity.CategorieMPPerissable,
		CoutUnitaire:  decimal.NewFromFloat(0.45),
		UniteMesure:   "L",
		SeuilAlerte:   decimal.NewFromInt(100),
		SeuilCommande: decimal.NewFromInt(500),
	}
}

func TestCreateProduit_Nominal(t *testing.T) {
	uc, _ := newCatalogueUC()

	p, err := uc.CreateProduit(context.Background(), produitValide())

	require.NoError(t, err)
	assert.True(t, p.Actif)
	assert.NotEmpty(t, p.ID)
}

func TestCreateProduit_SeuilsIncoherents(t *testing.T) {
	uc, _ := newCatalogueUC()
	in := produitValide()
	in.SeuilCommande = decimal.NewFromInt(100) // égal au seuil d'alerte

	_, err := uc.CreateProduit(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateProduit_TypeInconnu(t *testing.T) {
	uc, _ := newCatalogueUC()
	in := produitValide()
	in.Type = "SEMI-FINI"

	_, err := uc.CreateProduit(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProduit_CodeImmuable(t *testing.T) {
	uc, _ := newCatalogueUC()
	p, err := uc.CreateProduit(context.Background(), produitValide())
	require.NoError(t, err)

	maj := produitValide()
	maj.Code = "MP-AUTRE-99"
	maj.Nom = "Lait cru bio"

	p2, err := uc.UpdateProduit(context.Background(), p.ID, maj)

	require.NoError(t, err)
	assert.Equal(t, "MP-LAIT-01", p2.Code, "le code ne change jamais après création")
	assert.Equal(t, "Lait cru bio", p2.Nom)
}

func TestUpdateProduit_Introuvable(t *testing.T) {
	uc, _ := newCatalogueUC()

	_, err := uc.UpdateProduit(context.Background(), "absent", produitValide())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
