package appro

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// DemandeUseCase création et transitions des demandes d'approvisionnement.
// Toute mutation de statut passe par workflow.TableDemande : ce cas d'usage
// n'encode aucune règle de transition lui-même.
type DemandeUseCase struct {
	demandeRepo repository.DemandeRepository
	produitRepo repository.ProduitRepository
	audit       AuditSink
}

// NewDemandeUseCase construit le cas d'usage.
func NewDemandeUseCase(demandeRepo repository.DemandeRepository, produitRepo repository.ProduitRepository, audit AuditSink) *DemandeUseCase {
	return &DemandeUseCase{demandeRepo: demandeRepo, produitRepo: produitRepo, audit: audit}
}

// CreateDemande crée une demande en DRAFT pour le demandeur. Chaque ligne doit
// référencer une matière première existante avec une quantité positive.
func (uc *DemandeUseCase) CreateDemande(ctx context.Context, userID string, in dto.CreateDemandeRequest) (*entity.Demande, error) {
	if len(in.Lignes) == 0 {
		return nil, domain.ChampInvalide("lignes", "au moins une ligne requise")
	}
	ids := make([]string, 0, len(in.Lignes))
	for _, l := range in.Lignes {
		if !l.Quantite.GreaterThan(decimal.Zero) {
			return nil, domain.ChampInvalide("quantite", "doit être strictement positive")
		}
		ids = append(ids, l.ProduitID)
	}
	produits, err := uc.produitRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range in.Lignes {
		p, ok := produits[l.ProduitID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if p.Type != entity.TypeProduitMP {
			return nil, domain.ChampInvalide("produit_id", "seules les matières premières s'approvisionnent par demande")
		}
	}

	now := time.Now()
	seq, err := uc.demandeRepo.CountByYear(ctx, now.Year())
	if err != nil {
		return nil, err
	}
	d := &entity.Demande{
		ID:          uuid.New().String(),
		Reference:   fmt.Sprintf("DA-%d-%04d", now.Year(), seq+1),
		Statut:      workflow.DemandeDraft,
		DemandeurID: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, l := range in.Lignes {
		d.Lignes = append(d.Lignes, entity.DemandeLigne{
			ID:        uuid.New().String(),
			DemandeID: d.ID,
			ProduitID: l.ProduitID,
			Quantite:  l.Quantite,
			Note:      l.Note,
		})
	}
	if err := uc.demandeRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID détail d'une demande, lignes incluses.
func (uc *DemandeUseCase) GetByID(ctx context.Context, id string) (*entity.Demande, error) {
	d, err := uc.demandeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// List liste les demandes, filtrées par statut si non vide.
func (uc *DemandeUseCase) List(ctx context.Context, statut string, page dto.PageRequest) ([]*entity.Demande, error) {
	page.DefaultPage()
	return uc.demandeRepo.List(ctx, statut, page.Limit, page.Offset)
}

// Transition applique une transition de statut via le guard, puis persiste.
// Les transitions système (ORDERING→ORDERED, ORDERED→RECEIVED) ne passent pas
// ici : elles sont déclenchées par la génération de BC et le réconciliateur.
func (uc *DemandeUseCase) Transition(ctx context.Context, demandeID, statutCible string, role workflow.Role, justification, userID string) (*entity.Demande, error) {
	if role == workflow.RoleSystem {
		return nil, domain.ErrForbidden
	}
	d, err := uc.demandeRepo.GetByIDForUpdate(ctx, demandeID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	_, err = workflow.TableDemande.AssertCanTransition(d.Statut, statutCible, role, workflow.Context{Justification: justification})
	uc.audit.Transition(ctx, "demande", d.ID, d.Statut, statutCible, role, userID, err)
	if err != nil {
		return nil, err
	}
	if err := uc.demandeRepo.UpdateStatut(ctx, d.ID, statutCible, justification); err != nil {
		return nil, err
	}
	d.Statut = statutCible
	d.Justification = justification
	return d, nil
}

// Actions indices UI : actions disponibles depuis le statut courant pour un rôle.
func (uc *DemandeUseCase) Actions(ctx context.Context, demandeID string, role workflow.Role) (*dto.ActionsResponse, error) {
	d, err := uc.demandeRepo.GetByID(ctx, demandeID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.ActionsResponse{
		Statut:  d.Statut,
		Actions: workflow.TableDemande.AvailableActions(d.Statut, role, workflow.Context{}),
	}, nil
}
