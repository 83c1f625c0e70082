package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/application/stock"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

func newPerteUC(s *memStore) *stock.PerteUseCase {
	return stock.NewPerteUseCase(&memTxRunner{s}, &memProduitRepo{s})
}

const descriptionValide = "cuve renversée pendant le transfert du matin"

func TestDeclarerPerte_SurLotPrecis(t *testing.T) {
	s := newMemStore()
	seedLotsLait(s)
	uc := newPerteUC(s)

	perte, err := uc.Declarer(context.Background(), "u", dto.PerteRequest{
		TypeProduit: entity.TypeProduitMP,
		ProduitID:   "mp-lait",
		LotID:       "lot-dlc10",
		Quantite:    qty(10),
		Motif:       entity.PerteMotifCasse,
		Description: descriptionValide,
	})

	require.NoError(t, err)
	assert.Equal(t, "lot-dlc10", perte.LotID)
	assert.True(t, s.lots["lot-dlc10"].QuantiteRestante.Equal(qty(40)))
	require.Len(t, s.mouvements, 1)
	assert.Equal(t, entity.OriginePerte, s.mouvements[0].Origine)
	assert.Equal(t, perte.ID, s.mouvements[0].Reference)
	require.Len(t, s.pertes, 1)
}

func TestDeclarerPerte_FIFODrainLesLotsExpires(t *testing.T) {
	// Sans lot ciblé : retrait FIFO, et un lot expiré est prélevable (une
	// perte pour DLC vise précisément lui).
	s := newMemStore()
	seedLotsLait(s)
	hier := time.Now().Add(-24 * time.Hour)
	s.lots["lot-dlc5"].DateExpiration = &hier
	uc := newPerteUC(s)

	_, err := uc.Declarer(context.Background(), "u", dto.PerteRequest{
		TypeProduit: entity.TypeProduitMP,
		ProduitID:   "mp-lait",
		Quantite:    qty(30),
		Motif:       entity.PerteMotifDLCExpiree,
		Description: "lot entier au rebut, DLC dépassée depuis hier",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.LotStatutConsomme, s.lots["lot-dlc5"].Statut,
		"le lot expiré (DLC la plus proche) est vidé en premier")
	assert.True(t, s.lots["lot-dlc10"].QuantiteRestante.Equal(qty(50)))
}

func TestDeclarerPerte_StockInsuffisantSurLot(t *testing.T) {
	s := newMemStore()
	seedLotsLait(s)
	uc := newPerteUC(s)

	_, err := uc.Declarer(context.Background(), "u", dto.PerteRequest{
		TypeProduit: entity.TypeProduitMP,
		ProduitID:   "mp-lait",
		LotID:       "lot-dlc5",
		Quantite:    qty(31),
		Motif:       entity.PerteMotifCasse,
		Description: descriptionValide,
	})

	assert.ErrorIs(t, err, domain.ErrStockInsuffisant)
}

func TestDeclarerPerte_LotConsommeIndisponible(t *testing.T) {
	s := newMemStore()
	seedLotsLait(s)
	s.lots["lot-dlc5"].Statut = entity.LotStatutConsomme
	uc := newPerteUC(s)

	_, err := uc.Declarer(context.Background(), "u", dto.PerteRequest{
		TypeProduit: entity.TypeProduitMP,
		ProduitID:   "mp-lait",
		LotID:       "lot-dlc5",
		Quantite:    qty(1),
		Motif:       entity.PerteMotifCasse,
		Description: descriptionValide,
	})

	assert.ErrorIs(t, err, domain.ErrLotIndisponible)
}

func TestDeclarerPerte_Validation(t *testing.T) {
	s := newMemStore()
	seedLotsLait(s)
	uc := newPerteUC(s)
	ctx := context.Background()

	base := dto.PerteRequest{
		TypeProduit: entity.TypeProduitMP,
		ProduitID:   "mp-lait",
		Quantite:    qty(1),
		Motif:       entity.PerteMotifCasse,
		Description: descriptionValide,
	}

	mauvaisMotif := base
	mauvaisMotif.Motif = "PARTI_EN_FUMEE"
	_, err := uc.Declarer(ctx, "u", mauvaisMotif)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	courte := base
	courte.Description = "cassé"
	_, err = uc.Declarer(ctx, "u", courte)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "description sous 20 caractères refusée")

	mauvaisType := base
	mauvaisType.TypeProduit = entity.TypeProduitPF
	_, err = uc.Declarer(ctx, "u", mauvaisType)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "le type déclaré doit correspondre au produit")
}
