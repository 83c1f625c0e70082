package appro_test

import (
	"context"
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

func newBcUC(s *memStore) (*appro.BonCommandeUseCase, *memAudit) {
	audit := &memAudit{}
	uc := appro.NewBonCommandeUseCase(&memTxRunner{s}, &memBcRepo{s}, audit)
	return uc, audit
}

// ── Transitions simples ───────────────────────────────────────────────────────

func TestTransitionBc_EnvoyerPuisConfirmer(t *testing.T) {
	s := newMemStore()
	s.bcs["bc-1"] = &entity.BonCommande{ID: "bc-1", Statut: workflow.BcDraft}
	uc, _ := newBcUC(s)
	ctx := context.Background()

	bc, err := uc.Transition(ctx, "bc-1", workflow.BcSent, workflow.RoleAppro, "", "u")
	require.NoError(t, err)
	assert.Equal(t, workflow.BcSent, bc.Statut)

	bc, err = uc.Transition(ctx, "bc-1", workflow.BcConfirmed, workflow.RoleAppro, "", "u")
	require.NoError(t, err)
	assert.Equal(t, workflow.BcConfirmed, bc.Statut)
}

func TestTransitionBc_StatutsReservesRefuses(t *testing.T) {
	// PARTIAL, RECEIVED et CANCELLED ne s'atteignent que par les opérations
	// dédiées : la transition générique les refuse avant même de charger le BC.
	s := newMemStore()
	s.bcs["bc-1"] = &entity.BonCommande{ID: "bc-1", Statut: workflow.BcSent}
	uc, _ := newBcUC(s)
	ctx := context.Background()

	for _, cible := range []string{workflow.BcPartial, workflow.BcReceived, workflow.BcCancelled} {
		_, err := uc.Transition(ctx, "bc-1", cible, workflow.RoleAdmin, "motif suffisamment long", "u")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cible %s", cible)
	}
	assert.Equal(t, workflow.BcSent, s.bcs["bc-1"].Statut)
}

// ── Annulation ────────────────────────────────────────────────────────────────

func TestCancelBc_AdminAvecMotif(t *testing.T) {
	s := newMemStore()
	s.bcs["bc-1"] = &entity.BonCommande{ID: "bc-1", Statut: workflow.BcSent}
	uc, _ := newBcUC(s)

	resp, err := uc.CancelBc(context.Background(), "bc-1", workflow.RoleAdmin, "u", dto.CancelBcRequest{
		Motif: "fournisseur défaillant, commande réattribuée",
	})

	require.NoError(t, err)
	assert.Equal(t, workflow.BcCancelled, resp.NouveauStatut)
	assert.False(t, resp.CancelledAt.IsZero())
	assert.Equal(t, "fournisseur défaillant, commande réattribuée", s.bcs["bc-1"].MotifAnnulation)
}

func TestCancelBc_ApproRefuse(t *testing.T) {
	// L'annulation est une ligne à Roles vide : réservée à ADMIN.
	s := newMemStore()
	s.bcs["bc-1"] = &entity.BonCommande{ID: "bc-1", Statut: workflow.BcSent}
	uc, _ := newBcUC(s)

	_, err := uc.CancelBc(context.Background(), "bc-1", workflow.RoleAppro, "u", dto.CancelBcRequest{
		Motif: "fournisseur défaillant, commande réattribuée",
	})

	var te *workflow.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, workflow.ErrCodeRoleNotAuthorized, te.Code)
}

func TestCancelBc_MotifTropCourt(t *testing.T) {
	s := newMemStore()
	s.bcs["bc-1"] = &entity.BonCommande{ID: "bc-1", Statut: workflow.BcSent}
	uc, _ := newBcUC(s)

	_, err := uc.CancelBc(context.Background(), "bc-1", workflow.RoleAdmin, "u", dto.CancelBcRequest{Motif: "erreur"})

	var te *workflow.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, workflow.ErrCodeJustificationRequired, te.Code)
}

func TestCancelBc_BloqueApresReceptionPartielle(t *testing.T) {
	// Du stock est entré : l'annulation est refusée, même pour ADMIN.
	s := newMemStore()
	s.bcs["bc-1"] = &entity.BonCommande{
		ID:     "bc-1",
		Statut: workflow.BcPartial,
		Lignes: []entity.BonCommandeLigne{
			{ID: "l-1", Quantite: decimal.NewFromInt(100), QuantiteRecue: decimal.NewFromInt(40)},
		},
	}
	uc, audit := newBcUC(s)

	_, err := uc.CancelBc(context.Background(), "bc-1", workflow.RoleAdmin, "u", dto.CancelBcRequest{
		Motif: "fournisseur défaillant, commande réattribuée",
	})

	var te *workflow.TransitionError
	require.ErrorAs(t, err, &te)
	// PARTIAL n'a aucune arête vers CANCELLED : transition invalide.
	assert.Equal(t, workflow.ErrCodeInvalidTransition, te.Code)
	require.NotEmpty(t, audit.entries)
	assert.True(t, audit.entries[0].Refuse)
}

func TestCancelBc_RejeuNoOp(t *testing.T) {
	s := newMemStore()
	uc, _ := newBcUC(s)
	ctx := context.Background()
	s.bcs["bc-1"] = &entity.BonCommande{ID: "bc-1", Statut: workflow.BcSent}

	premier, err := uc.CancelBc(ctx, "bc-1", workflow.RoleAdmin, "u", dto.CancelBcRequest{
		Motif: "fournisseur défaillant, commande réattribuée",
	})
	require.NoError(t, err)

	rejeu, err := uc.CancelBc(ctx, "bc-1", workflow.RoleAdmin, "u", dto.CancelBcRequest{
		Motif: "fournisseur défaillant, commande réattribuée",
	})
	require.NoError(t, err)
	assert.Equal(t, premier.NouveauStatut, rejeu.NouveauStatut)
	assert.Equal(t, premier.CancelledAt, rejeu.CancelledAt, "le rejeu renvoie la date d'origine")
}

// ── Actions ───────────────────────────────────────────────────────────────────

func TestActionsBc_RefleteLaReceptionPartielle(t *testing.T) {
	s := newMemStore()
	s.bcs["bc-1"] = &entity.BonCommande{
		ID:     "bc-1",
		Statut: workflow.BcConfirmed,
		Lignes: []entity.BonCommandeLigne{
			{ID: "l-1", Quantite: decimal.NewFromInt(100), QuantiteRecue: decimal.NewFromInt(40)},
		},
	}
	uc, _ := newBcUC(s)

	actions, err := uc.Actions(context.Background(), "bc-1", workflow.RoleAdmin)

	require.NoError(t, err)
	assert.NotContains(t, actions.Actions, workflow.ActionAnnuler,
		"une réception partielle retire l'annulation des actions proposées")
	assert.Contains(t, actions.Actions, workflow.ActionReceptionner)
}
