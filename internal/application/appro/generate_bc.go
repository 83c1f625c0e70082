package appro

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	"github.com/mlefevre/Laiterie-api/internal/domain/workflow"
)

// GenerateBcUseCase génère les bons de commande d'une demande validée :
// un BC par fournisseur (les lignes de la demande sont regroupées par
// fournisseur par défaut de chaque matière première). La demande traverse
// VALIDATED → ORDERING (acteur humain) puis ORDERING → ORDERED (SYSTEM),
// les deux via le guard, dans la même transaction que la création des BC.
type GenerateBcUseCase struct {
	txRunner        TxRunner
	produitRepo     repository.ProduitRepository
	fournisseurRepo repository.FournisseurRepository
	audit           AuditSink
}

// NewGenerateBcUseCase construit le cas d'usage.
func NewGenerateBcUseCase(txRunner TxRunner, produitRepo repository.ProduitRepository, fournisseurRepo repository.FournisseurRepository, audit AuditSink) *GenerateBcUseCase {
	return &GenerateBcUseCase{txRunner: txRunner, produitRepo: produitRepo, fournisseurRepo: fournisseurRepo, audit: audit}
}

// GenerateBc éclate la demande en bons de commande DRAFT, un par fournisseur.
// Les prix unitaires viennent du coût catalogue, sauf override explicite.
func (uc *GenerateBcUseCase) GenerateBc(ctx context.Context, demandeID string, role workflow.Role, userID string, in dto.GenerateBcRequest) (*dto.GenerateBcResponse, error) {
	overrides := make(map[string]decimal.Decimal, len(in.PrixOverrides))
	for _, o := range in.PrixOverrides {
		if o.PrixUnitaire.IsNegative() {
			return nil, domain.ChampInvalide("prix_unitaire", "ne peut pas être négatif")
		}
		overrides[o.ProduitID] = o.PrixUnitaire
	}

	var resp *dto.GenerateBcResponse
	err := uc.txRunner.RunAppro(ctx, func(demandeRepo repository.DemandeRepository, bcRepo repository.BonCommandeRepository) error {
		d, err := demandeRepo.GetByIDForUpdate(ctx, demandeID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}

		_, err = workflow.TableDemande.AssertCanTransition(d.Statut, workflow.DemandeOrdering, role, workflow.Context{})
		uc.audit.Transition(ctx, "demande", d.ID, d.Statut, workflow.DemandeOrdering, role, userID, err)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(d.Lignes))
		for _, l := range d.Lignes {
			ids = append(ids, l.ProduitID)
		}
		produits, err := uc.produitRepo.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		// Regroupement des lignes par fournisseur par défaut
		parFournisseur := map[string][]entity.DemandeLigne{}
		for _, l := range d.Lignes {
			p, ok := produits[l.ProduitID]
			if !ok {
				return domain.ErrNotFound
			}
			if p.FournisseurID == "" {
				return domain.ErrFournisseurAbsent
			}
			parFournisseur[p.FournisseurID] = append(parFournisseur[p.FournisseurID], l)
		}

		now := time.Now()
		seq, err := bcRepo.CountByYear(ctx, now.Year())
		if err != nil {
			return err
		}

		resp = &dto.GenerateBcResponse{}
		for fournisseurID, lignes := range parFournisseur {
			f, err := uc.fournisseurRepo.GetByID(ctx, fournisseurID)
			if err != nil {
				return err
			}
			if f == nil {
				return domain.ErrNotFound
			}
			seq++
			bc := &entity.BonCommande{
				ID:                  uuid.New().String(),
				Reference:           fmt.Sprintf("BC-%d-%04d-%s", now.Year(), seq, slugFournisseur(f.Nom)),
				DemandeID:           d.ID,
				FournisseurID:       fournisseurID,
				Statut:              workflow.BcDraft,
				AdresseLivraison:    in.AdresseLivraison,
				DateLivraisonPrevue: in.DateLivraisonPrevue,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			for _, l := range lignes {
				prix := produits[l.ProduitID].CoutUnitaire
				if p, ok := overrides[l.ProduitID]; ok {
					prix = p
				}
				bc.Lignes = append(bc.Lignes, entity.BonCommandeLigne{
					ID:            uuid.New().String(),
					BonCommandeID: bc.ID,
					ProduitID:     l.ProduitID,
					Quantite:      l.Quantite,
					QuantiteRecue: decimal.Zero,
					PrixUnitaire:  prix,
				})
			}
			if err := bcRepo.Create(ctx, bc); err != nil {
				return err
			}
			resp.BonsCommandes = append(resp.BonsCommandes, dto.BcGenereDTO{
				ID:            bc.ID,
				Reference:     bc.Reference,
				FournisseurID: fournisseurID,
				TotalHT:       bc.TotalHT(),
				NbLignes:      len(bc.Lignes),
			})
		}
		resp.Count = len(resp.BonsCommandes)

		if err := demandeRepo.UpdateStatut(ctx, d.ID, workflow.DemandeOrdering, ""); err != nil {
			return err
		}
		// Les BC existent : la demande passe en ORDERED, transition système.
		_, err = workflow.TableDemande.AssertCanTransition(workflow.DemandeOrdering, workflow.DemandeOrdered, workflow.RoleSystem, workflow.Context{})
		uc.audit.Transition(ctx, "demande", d.ID, workflow.DemandeOrdering, workflow.DemandeOrdered, workflow.RoleSystem, userID, err)
		if err != nil {
			return err
		}
		return demandeRepo.UpdateStatut(ctx, d.ID, workflow.DemandeOrdered, "")
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// slugFournisseur trois premières lettres du nom, majuscules, accents retirés.
func slugFournisseur(nom string) string {
	decomposed := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(decomposed, nom)
	if err != nil {
		plain = nom
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(plain) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "FRN"
	}
	return b.String()
}
