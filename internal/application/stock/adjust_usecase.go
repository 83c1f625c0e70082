package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	domstock "github.com/mlefevre/Laiterie-api/internal/domain/stock"
)

var cent = decimal.NewFromInt(100)

// MinMotifAjustement longueur minimale (après trim) du motif d'un comptage,
// même règle que la justification d'une annulation de bon de commande.
const MinMotifAjustement = 10

// AjustementUseCase cycle de vie des ajustements d'inventaire : déclaration
// avec classification de risque, validation simple ou double selon le palier,
// application de l'écart au stock une fois l'ajustement approuvé.
//
// Garde-fous anti-fraude portés ici : cooldown de 4 h entre deux déclarations
// du même utilisateur sur le même produit, interdiction de valider son propre
// comptage, second validateur distinct des deux premiers intervenants,
// signalement des séries d'écarts négatifs.
type AjustementUseCase struct {
	txRunner    TxRunner
	produitRepo repository.ProduitRepository
}

// NewAjustementUseCase construit le cas d'usage.
func NewAjustementUseCase(txRunner TxRunner, produitRepo repository.ProduitRepository) *AjustementUseCase {
	return &AjustementUseCase{txRunner: txRunner, produitRepo: produitRepo}
}

// Declarer enregistre un comptage physique. L'écart contre le stock théorique
// est classé LOW / MEDIUM / CRITICAL ; un écart LOW est appliqué immédiatement,
// les autres attendent leur(s) validation(s).
func (uc *AjustementUseCase) Declarer(ctx context.Context, userID string, in dto.AjustementRequest) (*dto.AjustementResponse, error) {
	if in.QuantitePhysique.IsNegative() {
		return nil, domain.ChampInvalide("quantite_physique", "ne peut pas être négative")
	}
	motif := strings.TrimSpace(in.Motif)
	if len([]rune(motif)) < MinMotifAjustement {
		return nil, domain.ChampInvalide("motif", "motif de comptage de 10 caractères minimum requis")
	}
	produit, err := uc.getProduit(ctx, in.ProduitID)
	if err != nil {
		return nil, err
	}

	var resp *dto.AjustementResponse
	err = uc.txRunner.RunStock(ctx, func(
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		ajustementRepo repository.AjustementRepository,
	) error {
		now := time.Now()
		derniere, err := ajustementRepo.DerniereDeclaration(ctx, userID, in.ProduitID)
		if err != nil {
			return err
		}
		if derniere != nil && domstock.CooldownActif(*derniere, now) {
			return domain.ErrCooldownActif
		}

		theorique, err := lotRepo.SumRestanteByProduit(ctx, in.ProduitID)
		if err != nil {
			return err
		}
		ecart := in.QuantitePhysique.Sub(theorique)
		ecartPct := cent
		if !theorique.IsZero() {
			ecartPct = ecart.Div(theorique).Mul(cent)
		} else if ecart.IsZero() {
			ecartPct = decimal.Zero
		}
		valeur := ecart.Abs().Mul(produit.CoutUnitaire)
		niveau := domstock.ClassifierAjustement(produit.Categorie, ecartPct, valeur)

		// Série négative : les écarts précédents plus celui-ci.
		precedents, err := ajustementRepo.EcartsRecents(ctx, in.ProduitID, domstock.SeuilSerieNegative-1)
		if err != nil {
			return err
		}
		suspect := domstock.SerieNegativeSuspecte(append(precedents, ecart))

		statut := entity.AjustementEnAttente
		if niveau == domstock.RisqueLow {
			statut = entity.AjustementAutoApprouve
		}
		a := &entity.AjustementInventaire{
			ID:                uuid.New().String(),
			ProduitID:         in.ProduitID,
			QuantiteTheorique: theorique,
			QuantitePhysique:  in.QuantitePhysique,
			Ecart:             ecart,
			EcartPct:          ecartPct,
			Valeur:            valeur,
			NiveauRisque:      niveau,
			Statut:            statut,
			Motif:             motif,
			PhotosPreuve:      in.PhotosPreuve,
			Suspect:           suspect,
			ComptePar:         userID,
			CreatedAt:         now,
		}
		if statut == entity.AjustementAutoApprouve {
			if err := appliquerEcart(ctx, lotRepo, mouvementRepo, a, produit, userID); err != nil {
				return err
			}
			a.ValideAt = &now
		}
		if err := ajustementRepo.CreateAjustement(ctx, a); err != nil {
			return err
		}
		resp = toAjustementResponse(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Valider première validation humaine. Palier MEDIUM : l'ajustement est
// approuvé et appliqué. Palier CRITICAL : il passe en attente d'une seconde
// validation par une troisième personne.
func (uc *AjustementUseCase) Valider(ctx context.Context, ajustementID, validateurID string) (*dto.AjustementResponse, error) {
	var resp *dto.AjustementResponse
	err := uc.txRunner.RunStock(ctx, func(
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		ajustementRepo repository.AjustementRepository,
	) error {
		a, err := uc.chargerEnStatut(ctx, ajustementRepo, ajustementID, entity.AjustementEnAttente)
		if err != nil {
			return err
		}
		if !domstock.PeutValider(a.ComptePar, validateurID) {
			return domain.ErrAutoValidation
		}
		a.ValidePar = validateurID
		if a.NiveauRisque == domstock.RisqueCritical {
			a.Statut = entity.AjustementAttenteSecondeVal
		} else {
			if err := uc.approuver(ctx, lotRepo, mouvementRepo, a, validateurID); err != nil {
				return err
			}
		}
		if err := ajustementRepo.UpdateAjustement(ctx, a); err != nil {
			return err
		}
		resp = toAjustementResponse(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SecondeValidation seconde validation du palier CRITICAL, par une personne
// distincte du compteur et du premier validateur.
func (uc *AjustementUseCase) SecondeValidation(ctx context.Context, ajustementID, validateurID string) (*dto.AjustementResponse, error) {
	var resp *dto.AjustementResponse
	err := uc.txRunner.RunStock(ctx, func(
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		ajustementRepo repository.AjustementRepository,
	) error {
		a, err := uc.chargerEnStatut(ctx, ajustementRepo, ajustementID, entity.AjustementAttenteSecondeVal)
		if err != nil {
			return err
		}
		if !domstock.PeutSecondeValider(a.ComptePar, a.ValidePar, validateurID) {
			return domain.ErrAutoValidation
		}
		a.SecondValidePar = validateurID
		if err := uc.approuver(ctx, lotRepo, mouvementRepo, a, validateurID); err != nil {
			return err
		}
		if err := ajustementRepo.UpdateAjustement(ctx, a); err != nil {
			return err
		}
		resp = toAjustementResponse(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Rejeter refuse un ajustement en attente. Celui qui a compté ne peut pas
// non plus rejeter son propre comptage.
func (uc *AjustementUseCase) Rejeter(ctx context.Context, ajustementID, validateurID string) (*dto.AjustementResponse, error) {
	var resp *dto.AjustementResponse
	err := uc.txRunner.RunStock(ctx, func(
		_ repository.LotRepository,
		_ repository.MouvementStockRepository,
		ajustementRepo repository.AjustementRepository,
	) error {
		a, err := ajustementRepo.GetAjustementForUpdate(ctx, ajustementID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if a.Statut != entity.AjustementEnAttente && a.Statut != entity.AjustementAttenteSecondeVal {
			return domain.ErrConflict
		}
		if !domstock.PeutValider(a.ComptePar, validateurID) {
			return domain.ErrAutoValidation
		}
		a.Statut = entity.AjustementRejete
		if err := ajustementRepo.UpdateAjustement(ctx, a); err != nil {
			return err
		}
		resp = toAjustementResponse(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (uc *AjustementUseCase) approuver(
	ctx context.Context,
	lotRepo repository.LotRepository,
	mouvementRepo repository.MouvementStockRepository,
	a *entity.AjustementInventaire,
	validateurID string,
) error {
	produit, err := uc.getProduit(ctx, a.ProduitID)
	if err != nil {
		return err
	}
	if err := appliquerEcart(ctx, lotRepo, mouvementRepo, a, produit, validateurID); err != nil {
		return err
	}
	now := time.Now()
	a.Statut = entity.AjustementValide
	a.ValideAt = &now
	return nil
}

func (uc *AjustementUseCase) chargerEnStatut(ctx context.Context, ajustementRepo repository.AjustementRepository, id, statut string) (*entity.AjustementInventaire, error) {
	a, err := ajustementRepo.GetAjustementForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if a.Statut != statut {
		return nil, domain.ErrConflict
	}
	return a, nil
}

func (uc *AjustementUseCase) getProduit(ctx context.Context, produitID string) (*entity.Produit, error) {
	produits, err := uc.produitRepo.GetByIDs(ctx, []string{produitID})
	if err != nil {
		return nil, err
	}
	p, ok := produits[produitID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// appliquerEcart matérialise l'écart approuvé dans les lots et le grand livre.
// Écart positif : création d'un lot d'ajustement sans DLC. Écart négatif :
// retrait FIFO, DLC ignorée (le stock manquant est souvent le stock périmé).
func appliquerEcart(
	ctx context.Context,
	lotRepo repository.LotRepository,
	mouvementRepo repository.MouvementStockRepository,
	a *entity.AjustementInventaire,
	produit *entity.Produit,
	userID string,
) error {
	if a.Ecart.IsZero() {
		return nil
	}
	now := time.Now()
	if a.Ecart.GreaterThan(decimal.Zero) {
		lot := &entity.Lot{
			ID:               uuid.New().String(),
			NumeroLot:        "AJ-" + a.ID[:8],
			ProduitID:        a.ProduitID,
			QuantiteInitiale: a.Ecart,
			QuantiteRestante: a.Ecart,
			DateFabrication:  now,
			Statut:           entity.LotStatutDisponible,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := lotRepo.Create(ctx, lot); err != nil {
			return err
		}
		return mouvementRepo.Create(ctx, &entity.MouvementStock{
			ID:          uuid.New().String(),
			Type:        entity.MouvementTypeIN,
			Origine:     entity.OrigineAjustement,
			TypeProduit: produit.Type,
			ProduitID:   a.ProduitID,
			LotID:       lot.ID,
			Quantite:    a.Ecart,
			Reference:   a.ID,
			CreatedBy:   userID,
			CreatedAt:   now,
		})
	}

	lots, err := lotRepo.ListByProduitForUpdate(ctx, a.ProduitID)
	if err != nil {
		return err
	}
	plan, err := domstock.PlanifierRetrait(lots, a.Ecart.Abs())
	if err != nil {
		return err
	}
	for _, p := range plan {
		if err := appliquerPrelevement(ctx, lotRepo, mouvementRepo, p, entity.MouvementStock{
			Type:        entity.MouvementTypeOUT,
			Origine:     entity.OrigineAjustement,
			TypeProduit: produit.Type,
			ProduitID:   a.ProduitID,
			Reference:   a.ID,
			CreatedBy:   userID,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func toAjustementResponse(a *entity.AjustementInventaire) *dto.AjustementResponse {
	return &dto.AjustementResponse{
		ID:           a.ID,
		Ecart:        a.Ecart,
		EcartPct:     a.EcartPct,
		Valeur:       a.Valeur,
		NiveauRisque: a.NiveauRisque,
		Statut:       a.Statut,
		Suspect:      a.Suspect,
	}
}
