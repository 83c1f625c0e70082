package appro

import (
	"context"
	"time"

	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// statutsReserves cibles interdites sur l'endpoint de transition générique :
// elles ont leurs opérations dédiées (réception, annulation) qui portent les
// effets de bord associés.
var statutsReserves = map[string]bool{
	workflow.BcPartial:   true,
	workflow.BcReceived:  true,
	workflow.BcCancelled: true,
}

// BonCommandeUseCase transitions simples et annulation des bons de commande.
type BonCommandeUseCase struct {
	txRunner TxRunner
	bcRepo   repository.BonCommandeRepository
	audit    AuditSink
}

// NewBonCommandeUseCase construit le cas d'usage.
func NewBonCommandeUseCase(txRunner TxRunner, bcRepo repository.BonCommandeRepository, audit AuditSink) *BonCommandeUseCase {
	return &BonCommandeUseCase{txRunner: txRunner, bcRepo: bcRepo, audit: audit}
}

// GetByID détail d'un BC, lignes incluses.
func (uc *BonCommandeUseCase) GetByID(ctx context.Context, id string) (*entity.BonCommande, error) {
	bc, err := uc.bcRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bc == nil {
		return nil, domain.ErrNotFound
	}
	return bc, nil
}

// Transition transitions simples (envoyer, confirmer). Les statuts PARTIAL,
// RECEIVED et CANCELLED ne sont atteignables que par les opérations dédiées.
func (uc *BonCommandeUseCase) Transition(ctx context.Context, bcID, statutCible string, role workflow.Role, justification, userID string) (*entity.BonCommande, error) {
	if statutsReserves[statutCible] {
		return nil, domain.ChampInvalide("statut", "ce statut s'atteint via l'opération dédiée, pas par transition directe")
	}
	bc, err := uc.bcRepo.GetByIDForUpdate(ctx, bcID)
	if err != nil {
		return nil, err
	}
	if bc == nil {
		return nil, domain.ErrNotFound
	}
	_, err = workflow.TableBonCommande.AssertCanTransition(bc.Statut, statutCible, role, workflow.Context{Justification: justification})
	uc.audit.Transition(ctx, "bon_commande", bc.ID, bc.Statut, statutCible, role, userID, err)
	if err != nil {
		return nil, err
	}
	if err := uc.bcRepo.UpdateStatut(ctx, bc.ID, statutCible); err != nil {
		return nil, err
	}
	bc.Statut = statutCible
	return bc, nil
}

// Actions indices UI : actions disponibles depuis le statut courant pour un rôle.
func (uc *BonCommandeUseCase) Actions(ctx context.Context, bcID string, role workflow.Role) (*dto.ActionsResponse, error) {
	bc, err := uc.bcRepo.GetByID(ctx, bcID)
	if err != nil {
		return nil, err
	}
	if bc == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.ActionsResponse{
		Statut:  bc.Statut,
		Actions: workflow.TableBonCommande.AvailableActions(bc.Statut, role, workflow.Context{HasPartialReception: bc.AReceptionPartielle()}),
	}, nil
}

// CancelBc annule un BC. Le guard porte les règles : motif obligatoire,
// rôle admin, et refus catégorique dès qu'une réception partielle a été
// enregistrée (du stock réel est entré, on ne peut plus prétendre que la
// commande n'a pas existé).
func (uc *BonCommandeUseCase) CancelBc(ctx context.Context, bcID string, role workflow.Role, userID string, in dto.CancelBcRequest) (*dto.CancelBcResponse, error) {
	var resp *dto.CancelBcResponse
	err := uc.txRunner.RunAppro(ctx, func(_ repository.DemandeRepository, bcRepo repository.BonCommandeRepository) error {
		bc, err := bcRepo.GetByIDForUpdate(ctx, bcID)
		if err != nil {
			return err
		}
		if bc == nil {
			return domain.ErrNotFound
		}
		// Rejeu : annuler un BC déjà annulé est un no-op, pas une erreur.
		if bc.Statut == workflow.BcCancelled {
			resp = &dto.CancelBcResponse{NouveauStatut: bc.Statut}
			if bc.CancelledAt != nil {
				resp.CancelledAt = *bc.CancelledAt
			}
			return nil
		}
		_, err = workflow.TableBonCommande.AssertCanTransition(bc.Statut, workflow.BcCancelled, role, workflow.Context{
			Justification:       in.Motif,
			HasPartialReception: bc.AReceptionPartielle(),
		})
		uc.audit.Transition(ctx, "bon_commande", bc.ID, bc.Statut, workflow.BcCancelled, role, userID, err)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := bcRepo.UpdateAnnulation(ctx, bc.ID, in.Motif, now); err != nil {
			return err
		}
		if err := bcRepo.UpdateStatut(ctx, bc.ID, workflow.BcCancelled); err != nil {
			return err
		}
		resp = &dto.CancelBcResponse{NouveauStatut: workflow.BcCancelled, CancelledAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
