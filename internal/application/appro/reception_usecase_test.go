package appro_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefevre/Laiterie-api/internal/application/appro"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Réconciliateur de réception : complétude, réceptions partielles successives,
// idempotence par clé, cascade de clôture de la demande.
// ──────────────────────────────────────────────────────────────────────────────

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// seedBcEnAttente pose une demande ORDERED et un BC SENT de deux lignes
// (lait cru 100, présure 50) prêt à être réceptionné.
func seedBcEnAttente(s *memStore) *entity.BonCommande {
	s.produits["mp-lait"] = &entity.Produit{ID: "mp-lait", Code: "LAIT-CRU", Type: entity.TypeProduitMP}
	s.produits["mp-presure"] = &entity.Produit{ID: "mp-presure", Code: "PRESURE", Type: entity.TypeProduitMP}
	s.demandes["da-1"] = &entity.Demande{ID: "da-1", Reference: "DA-2026-0001", Statut: workflow.DemandeOrdered}
	bc := &entity.BonCommande{
		ID:            "bc-1",
		Reference:     "BC-2026-0001-LAC",
		DemandeID:     "da-1",
		FournisseurID: "frn-1",
		Statut:        workflow.BcSent,
		Lignes: []entity.BonCommandeLigne{
			{ID: "ligne-lait", BonCommandeID: "bc-1", ProduitID: "mp-lait", Quantite: qty(100), QuantiteRecue: decimal.Zero},
			{ID: "ligne-presure", BonCommandeID: "bc-1", ProduitID: "mp-presure", Quantite: qty(50), QuantiteRecue: decimal.Zero},
		},
	}
	s.bcs[bc.ID] = bc
	return bc
}

func newReceptionUC(s *memStore) (*appro.ReceptionUseCase, *memAudit) {
	audit := &memAudit{}
	uc := appro.NewReceptionUseCase(&memTxRunner{s}, &memProduitRepo{s}, audit)
	return uc, audit
}

func TestReceptionnerBc_LivraisonComplete(t *testing.T) {
	s := newMemStore()
	seedBcEnAttente(s)
	uc, _ := newReceptionUC(s)

	resp, err := uc.ReceptionnerBc(context.Background(), "bc-1", workflow.RoleAppro, "user-appro", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{
			{LigneID: "ligne-lait", QuantiteRecue: qty(100), NumeroLot: "L-2026-042"},
			{LigneID: "ligne-presure", QuantiteRecue: qty(50)},
		},
		NumeroBL: "BL-778",
	})

	require.NoError(t, err)
	assert.Equal(t, workflow.BcReceived, resp.NouveauStatut)
	assert.Equal(t, 2, resp.MouvementsCrees)
	assert.True(t, resp.DemandeCloturee, "seul BC de la demande : réception complète = clôture")
	assert.True(t, strings.HasPrefix(resp.ReceptionReference, "REC-"))

	// La demande d'origine est passée ORDERED → RECEIVED par l'acteur SYSTEM.
	assert.Equal(t, workflow.DemandeReceived, s.demandes["da-1"].Statut)

	// Deux lots créés : un avec le numéro fournisseur, un anonyme LOT-XXXXXXXX.
	require.Len(t, s.lots, 2)
	lait, err := (&memLotRepo{s}).GetByNumero(context.Background(), "mp-lait", "L-2026-042")
	require.NoError(t, err)
	require.NotNil(t, lait)
	assert.True(t, lait.QuantiteRestante.Equal(qty(100)))
	assert.Equal(t, "frn-1", lait.FournisseurID)

	// Le grand livre égale le stock : une écriture IN par ligne reçue.
	solde, err := (&memMouvementRepo{s}).SoldeByProduit(context.Background(), "mp-lait")
	require.NoError(t, err)
	assert.True(t, solde.Equal(qty(100)))
}

func TestReceptionnerBc_PartiellePuisComplete(t *testing.T) {
	s := newMemStore()
	seedBcEnAttente(s)
	uc, _ := newReceptionUC(s)
	ctx := context.Background()

	// Première livraison : 40 sur 100 de lait, rien d'autre.
	resp, err := uc.ReceptionnerBc(ctx, "bc-1", workflow.RoleAppro, "user-appro", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{{LigneID: "ligne-lait", QuantiteRecue: qty(40), NumeroLot: "L-A"}},
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.BcPartial, resp.NouveauStatut)
	assert.False(t, resp.DemandeCloturee)
	assert.Equal(t, workflow.DemandeOrdered, s.demandes["da-1"].Statut, "la demande reste ouverte")

	// Seconde livraison : le solde. PARTIAL → RECEIVED via la boucle de la table.
	resp, err = uc.ReceptionnerBc(ctx, "bc-1", workflow.RoleAppro, "user-appro", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{
			{LigneID: "ligne-lait", QuantiteRecue: qty(60), NumeroLot: "L-B"},
			{LigneID: "ligne-presure", QuantiteRecue: qty(50)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.BcReceived, resp.NouveauStatut)
	assert.True(t, resp.DemandeCloturee)
	assert.Equal(t, workflow.DemandeReceived, s.demandes["da-1"].Statut)
}

func TestReceptionnerBc_SurLivraisonAccepteeCommeComplete(t *testing.T) {
	// Livrer plus que commandé reste une réception complète (l'écart se régule
	// ensuite par ajustement d'inventaire, pas en refusant le camion).
	s := newMemStore()
	seedBcEnAttente(s)
	uc, _ := newReceptionUC(s)

	resp, err := uc.ReceptionnerBc(context.Background(), "bc-1", workflow.RoleAppro, "user-appro", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{
			{LigneID: "ligne-lait", QuantiteRecue: qty(110)},
			{LigneID: "ligne-presure", QuantiteRecue: qty(50)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, workflow.BcReceived, resp.NouveauStatut)
}

func TestReceptionnerBc_RejeuIdempotent(t *testing.T) {
	s := newMemStore()
	seedBcEnAttente(s)
	uc, _ := newReceptionUC(s)
	ctx := context.Background()
	req := dto.ReceptionBcRequest{
		Lignes:         []dto.ReceptionLigneRequest{{LigneID: "ligne-lait", QuantiteRecue: qty(40), NumeroLot: "L-A"}},
		IdempotencyKey: "livraison-2026-02-14",
	}

	premier, err := uc.ReceptionnerBc(ctx, "bc-1", workflow.RoleAppro, "user-appro", req)
	require.NoError(t, err)

	rejeu, err := uc.ReceptionnerBc(ctx, "bc-1", workflow.RoleAppro, "user-appro", req)
	require.NoError(t, err)

	// Même snapshot, et surtout : pas de second crédit.
	assert.Equal(t, premier, rejeu)
	assert.Len(t, s.mouvements, 1, "le rejeu ne doit écrire aucun mouvement")
	lot, _ := (&memLotRepo{s}).GetByNumero(ctx, "mp-lait", "L-A")
	require.NotNil(t, lot)
	assert.True(t, lot.QuantiteRestante.Equal(qty(40)), "le rejeu ne doit pas re-créditer le lot")
	assert.Len(t, s.receptions, 1)
}

func TestReceptionnerBc_AbondeLotExistant(t *testing.T) {
	// Deux livraisons sur le même numéro de lot fournisseur : un seul lot, cumulé.
	s := newMemStore()
	seedBcEnAttente(s)
	uc, _ := newReceptionUC(s)
	ctx := context.Background()

	_, err := uc.ReceptionnerBc(ctx, "bc-1", workflow.RoleAppro, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{{LigneID: "ligne-lait", QuantiteRecue: qty(30), NumeroLot: "L-CUVE-7"}},
	})
	require.NoError(t, err)
	_, err = uc.ReceptionnerBc(ctx, "bc-1", workflow.RoleAppro, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{{LigneID: "ligne-lait", QuantiteRecue: qty(20), NumeroLot: "L-CUVE-7"}},
	})
	require.NoError(t, err)

	require.Len(t, s.lots, 1)
	lot, _ := (&memLotRepo{s}).GetByNumero(ctx, "mp-lait", "L-CUVE-7")
	assert.True(t, lot.QuantiteInitiale.Equal(qty(50)))
	assert.True(t, lot.QuantiteRestante.Equal(qty(50)))
}

func TestReceptionnerBc_CascadeAttendTousLesBC(t *testing.T) {
	// Demande éclatée en deux BC : la clôture attend le dernier.
	s := newMemStore()
	seedBcEnAttente(s)
	s.bcs["bc-2"] = &entity.BonCommande{
		ID:        "bc-2",
		Reference: "BC-2026-0002-FRO",
		DemandeID: "da-1",
		Statut:    workflow.BcSent,
		Lignes: []entity.BonCommandeLigne{
			{ID: "ligne-ferments", BonCommandeID: "bc-2", ProduitID: "mp-presure", Quantite: qty(10)},
		},
	}
	uc, _ := newReceptionUC(s)
	ctx := context.Background()

	resp, err := uc.ReceptionnerBc(ctx, "bc-1", workflow.RoleAppro, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{
			{LigneID: "ligne-lait", QuantiteRecue: qty(100)},
			{LigneID: "ligne-presure", QuantiteRecue: qty(50)},
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.DemandeCloturee, "bc-2 est encore ouvert")
	assert.Equal(t, workflow.DemandeOrdered, s.demandes["da-1"].Statut)

	resp, err = uc.ReceptionnerBc(ctx, "bc-2", workflow.RoleAppro, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{{LigneID: "ligne-ferments", QuantiteRecue: qty(10)}},
	})
	require.NoError(t, err)
	assert.True(t, resp.DemandeCloturee)
	assert.Equal(t, workflow.DemandeReceived, s.demandes["da-1"].Statut)
}

func TestReceptionnerBc_BcAnnuleCompteCommeTermine(t *testing.T) {
	// Un BC frère annulé ne bloque pas la clôture : CANCELLED est terminal.
	s := newMemStore()
	seedBcEnAttente(s)
	s.bcs["bc-2"] = &entity.BonCommande{
		ID: "bc-2", Reference: "BC-2026-0002-FRO", DemandeID: "da-1", Statut: workflow.BcCancelled,
	}
	uc, _ := newReceptionUC(s)

	resp, err := uc.ReceptionnerBc(context.Background(), "bc-1", workflow.RoleAppro, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{
			{LigneID: "ligne-lait", QuantiteRecue: qty(100)},
			{LigneID: "ligne-presure", QuantiteRecue: qty(50)},
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.DemandeCloturee)
}

// ── Refus ─────────────────────────────────────────────────────────────────────

func TestReceptionnerBc_LigneInconnue(t *testing.T) {
	s := newMemStore()
	seedBcEnAttente(s)
	uc, _ := newReceptionUC(s)

	_, err := uc.ReceptionnerBc(context.Background(), "bc-1", workflow.RoleAppro, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{{LigneID: "ligne-fantome", QuantiteRecue: qty(5)}},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.lots, "rien ne doit être crédité")
}

func TestReceptionnerBc_QuantiteNonPositive(t *testing.T) {
	s := newMemStore()
	seedBcEnAttente(s)
	uc, _ := newReceptionUC(s)

	_, err := uc.ReceptionnerBc(context.Background(), "bc-1", workflow.RoleAppro, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{{LigneID: "ligne-lait", QuantiteRecue: decimal.Zero}},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceptionnerBc_RoleProductionRefuse(t *testing.T) {
	s := newMemStore()
	seedBcEnAttente(s)
	uc, audit := newReceptionUC(s)

	_, err := uc.ReceptionnerBc(context.Background(), "bc-1", workflow.RoleProduction, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{{LigneID: "ligne-lait", QuantiteRecue: qty(100)}},
	})

	var te *workflow.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, workflow.ErrCodeRoleNotAuthorized, te.Code)
	// Le refus est quand même audité.
	require.NotEmpty(t, audit.entries)
	assert.True(t, audit.entries[len(audit.entries)-1].Refuse)
}

func TestReceptionnerBc_BcInconnu(t *testing.T) {
	s := newMemStore()
	uc, _ := newReceptionUC(s)

	_, err := uc.ReceptionnerBc(context.Background(), "absent", workflow.RoleAppro, "u", dto.ReceptionBcRequest{
		Lignes: []dto.ReceptionLigneRequest{{LigneID: "l", QuantiteRecue: qty(1)}},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
