package appro

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// ReceptionUseCase réconciliateur de réception : applique une livraison
// fournisseur contre les lignes ouvertes d'un bon de commande.
//
// Dans une seule transaction : création/abondement des lots, écritures IN
// immuables au grand livre, cumuls reçus par ligne, décision PARTIAL vs
// RECEIVED via le guard, et cascade de clôture de la demande d'origine
// (acteur SYSTEM) quand tous les BC de la demande sont terminés.
type ReceptionUseCase struct {
	txRunner    TxRunner
	produitRepo repository.ProduitRepository
	audit       AuditSink
}

// NewReceptionUseCase construit le réconciliateur.
func NewReceptionUseCase(txRunner TxRunner, produitRepo repository.ProduitRepository, audit AuditSink) *ReceptionUseCase {
	return &ReceptionUseCase{txRunner: txRunner, produitRepo: produitRepo, audit: audit}
}

// ReceptionnerBc applique les quantités reçues. Rejouer le même payload avec la
// même clé d'idempotence renvoie le snapshot enregistré sans re-créditer le stock.
func (uc *ReceptionUseCase) ReceptionnerBc(ctx context.Context, bcID string, role workflow.Role, userID string, in dto.ReceptionBcRequest) (*dto.ReceptionBcResponse, error) {
	if len(in.Lignes) == 0 {
		return nil, domain.ChampInvalide("lignes", "au moins une ligne requise")
	}
	for _, l := range in.Lignes {
		if !l.QuantiteRecue.GreaterThan(decimal.Zero) {
			return nil, domain.ChampInvalide("quantite_recue", "doit être strictement positive")
		}
	}
	dateReception := time.Now()
	if in.DateReception != nil {
		dateReception = *in.DateReception
	}

	var resp *dto.ReceptionBcResponse
	err := uc.txRunner.RunReception(ctx, func(
		bcRepo repository.BonCommandeRepository,
		demandeRepo repository.DemandeRepository,
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		receptionRepo repository.ReceptionRepository,
	) error {
		// Rejeu : même clé = même livraison physique, déjà créditée.
		if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
			deja, err := receptionRepo.GetByIdempotencyKey(ctx, bcID, key)
			if err != nil {
				return err
			}
			if deja != nil {
				resp = &dto.ReceptionBcResponse{
					NouveauStatut:      deja.StatutResultant,
					ReceptionReference: deja.Reference,
					MouvementsCrees:    deja.MouvementsCrees,
					DemandeCloturee:    deja.DemandeCloturee,
				}
				return nil
			}
		}

		bc, err := bcRepo.GetByIDForUpdate(ctx, bcID)
		if err != nil {
			return err
		}
		if bc == nil {
			return domain.ErrNotFound
		}
		avaitPartiel := bc.AReceptionPartielle()

		mouvements := 0
		for _, lr := range in.Lignes {
			ligne := trouverLigne(bc, lr.LigneID)
			if ligne == nil {
				return domain.ChampInvalide("item_id", "ligne inconnue sur ce bon de commande")
			}
			lot, err := uc.crediterLot(ctx, lotRepo, bc, ligne.ProduitID, lr, dateReception)
			if err != nil {
				return err
			}
			mvt := &entity.MouvementStock{
				ID:          uuid.New().String(),
				Type:        entity.MouvementTypeIN,
				Origine:     entity.OrigineReception,
				TypeProduit: entity.TypeProduitMP,
				ProduitID:   ligne.ProduitID,
				LotID:       lot.ID,
				Quantite:    lr.QuantiteRecue,
				Reference:   bc.Reference,
				Note:        lr.Note,
				CreatedBy:   userID,
				CreatedAt:   dateReception,
			}
			if err := mouvementRepo.Create(ctx, mvt); err != nil {
				return err
			}
			mouvements++

			ligne.QuantiteRecue = ligne.QuantiteRecue.Add(lr.QuantiteRecue)
			if err := bcRepo.UpdateLigneQuantiteRecue(ctx, ligne.ID, ligne.QuantiteRecue); err != nil {
				return err
			}
		}

		// Décision de complétude : toutes les lignes couvertes → RECEIVED, sinon PARTIAL.
		cible := workflow.BcPartial
		if bc.EstComplet() {
			cible = workflow.BcReceived
		}
		_, err = workflow.TableBonCommande.AssertCanTransition(bc.Statut, cible, role, workflow.Context{HasPartialReception: avaitPartiel})
		uc.audit.Transition(ctx, "bon_commande", bc.ID, bc.Statut, cible, role, userID, err)
		if err != nil {
			return err
		}
		if err := bcRepo.UpdateStatut(ctx, bc.ID, cible); err != nil {
			return err
		}
		bc.Statut = cible

		demandeCloturee := false
		if cible == workflow.BcReceived {
			demandeCloturee, err = uc.cloturerDemandeSiComplete(ctx, bcRepo, demandeRepo, bc, userID)
			if err != nil {
				return err
			}
		}

		seq, err := receptionRepo.CountByYear(ctx, dateReception.Year())
		if err != nil {
			return err
		}
		rec := &entity.Reception{
			ID:              uuid.New().String(),
			Reference:       fmt.Sprintf("REC-%d-%04d", dateReception.Year(), seq+1),
			BonCommandeID:   bc.ID,
			NumeroBL:        in.NumeroBL,
			DateReception:   dateReception,
			IdempotencyKey:  strings.TrimSpace(in.IdempotencyKey),
			StatutResultant: cible,
			MouvementsCrees: mouvements,
			DemandeCloturee: demandeCloturee,
			CreatedBy:       userID,
			CreatedAt:       time.Now(),
		}
		if err := receptionRepo.Create(ctx, rec); err != nil {
			return err
		}

		resp = &dto.ReceptionBcResponse{
			NouveauStatut:      cible,
			ReceptionReference: rec.Reference,
			MouvementsCrees:    mouvements,
			DemandeCloturee:    demandeCloturee,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// crediterLot abonde le lot désigné par son numéro, ou en crée un nouveau.
// Sans numéro fourni : entrée anonyme, lot créé avec un numéro généré.
func (uc *ReceptionUseCase) crediterLot(
	ctx context.Context,
	lotRepo repository.LotRepository,
	bc *entity.BonCommande,
	produitID string,
	lr dto.ReceptionLigneRequest,
	dateReception time.Time,
) (*entity.Lot, error) {
	if lr.NumeroLot != "" {
		lot, err := lotRepo.GetByNumero(ctx, produitID, lr.NumeroLot)
		if err != nil {
			return nil, err
		}
		if lot != nil {
			lot.QuantiteInitiale = lot.QuantiteInitiale.Add(lr.QuantiteRecue)
			lot.QuantiteRestante = lot.QuantiteRestante.Add(lr.QuantiteRecue)
			lot.UpdatedAt = time.Now()
			if err := lotRepo.UpdateQuantites(ctx, lot); err != nil {
				return nil, err
			}
			return lot, nil
		}
	}
	numero := lr.NumeroLot
	if numero == "" {
		numero = "LOT-" + strings.ToUpper(uuid.New().String()[:8])
	}
	lot := &entity.Lot{
		ID:               uuid.New().String(),
		NumeroLot:        numero,
		ProduitID:        produitID,
		FournisseurID:    bc.FournisseurID,
		QuantiteInitiale: lr.QuantiteRecue,
		QuantiteRestante: lr.QuantiteRecue,
		DateFabrication:  dateReception,
		DateExpiration:   lr.DateExpiration,
		Statut:           entity.LotStatutDisponible,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := lotRepo.Create(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// cloturerDemandeSiComplete ferme la demande d'origine (ORDERED → RECEIVED,
// acteur SYSTEM) quand tous les BC issus de la demande sont terminés
// (RECEIVED ou CANCELLED). Une demande éclatée en plusieurs BC ne se ferme
// qu'à la réception du dernier.
func (uc *ReceptionUseCase) cloturerDemandeSiComplete(
	ctx context.Context,
	bcRepo repository.BonCommandeRepository,
	demandeRepo repository.DemandeRepository,
	bc *entity.BonCommande,
	userID string,
) (bool, error) {
	freres, err := bcRepo.ListByDemande(ctx, bc.DemandeID)
	if err != nil {
		return false, err
	}
	for _, autre := range freres {
		statut := autre.Statut
		if autre.ID == bc.ID {
			statut = bc.Statut
		}
		if !workflow.TableBonCommande.IsTerminal(statut) {
			return false, nil
		}
	}

	d, err := demandeRepo.GetByIDForUpdate(ctx, bc.DemandeID)
	if err != nil {
		return false, err
	}
	if d == nil || d.Statut != workflow.DemandeOrdered {
		return false, nil
	}
	_, err = workflow.TableDemande.AssertCanTransition(d.Statut, workflow.DemandeReceived, workflow.RoleSystem, workflow.Context{})
	uc.audit.Transition(ctx, "demande", d.ID, d.Statut, workflow.DemandeReceived, workflow.RoleSystem, userID, err)
	if err != nil {
		return false, err
	}
	if err := demandeRepo.UpdateStatut(ctx, d.ID, workflow.DemandeReceived, ""); err != nil {
		return false, err
	}
	return true, nil
}

func trouverLigne(bc *entity.BonCommande, ligneID string) *entity.BonCommandeLigne {
	for i := range bc.Lignes {
		if bc.Lignes[i].ID == ligneID {
			return &bc.Lignes[i]
		}
	}
	return nil
}
