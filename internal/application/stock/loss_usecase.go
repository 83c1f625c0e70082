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

// MinDescriptionPerte longueur minimale de la description d'une perte,
// en runes, après retrait des espaces de bordure.
const MinDescriptionPerte = 20

// PerteUseCase déclaration des pertes de stock (casse, DLC dépassée,
// contamination...). Une perte cible soit un lot précis, soit le produit en
// FIFO. La DLC n'exclut pas un lot du retrait : les pertes pour expiration
// visent justement les lots périmés.
type PerteUseCase struct {
	txRunner    TxRunner
	produitRepo repository.ProduitRepository
}

// NewPerteUseCase construit le cas d'usage.
func NewPerteUseCase(txRunner TxRunner, produitRepo repository.ProduitRepository) *PerteUseCase {
	return &PerteUseCase{txRunner: txRunner, produitRepo: produitRepo}
}

// Declarer enregistre une perte et débite le stock correspondant.
func (uc *PerteUseCase) Declarer(ctx context.Context, userID string, in dto.PerteRequest) (*entity.DeclarationPerte, error) {
	if !in.Quantite.GreaterThan(decimal.Zero) {
		return nil, domain.ChampInvalide("quantite", "doit être strictement positive")
	}
	if !entity.MotifPerteValide(in.Motif) {
		return nil, domain.ChampInvalide("motif", "motif de perte inconnu")
	}
	if len([]rune(strings.TrimSpace(in.Description))) < MinDescriptionPerte {
		return nil, domain.ChampInvalide("description", "description trop courte (20 caractères minimum)")
	}
	produit, err := uc.getProduit(ctx, in.ProduitID)
	if err != nil {
		return nil, err
	}
	if in.TypeProduit != produit.Type {
		return nil, domain.ChampInvalide("type_produit", "ne correspond pas au type du produit")
	}

	var perte *entity.DeclarationPerte
	err = uc.txRunner.RunStock(ctx, func(
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		ajustementRepo repository.AjustementRepository,
	) error {
		now := time.Now()
		perte = &entity.DeclarationPerte{
			ID:           uuid.New().String(),
			TypeProduit:  in.TypeProduit,
			ProduitID:    in.ProduitID,
			LotID:        in.LotID,
			Quantite:     in.Quantite,
			Motif:        in.Motif,
			Description:  strings.TrimSpace(in.Description),
			PhotosPreuve: in.PhotosPreuve,
			DeclarePar:   userID,
			CreatedAt:    now,
		}

		modele := entity.MouvementStock{
			Type:        entity.MouvementTypeOUT,
			Origine:     entity.OriginePerte,
			TypeProduit: produit.Type,
			ProduitID:   in.ProduitID,
			Reference:   perte.ID,
			Note:        in.Motif,
			CreatedBy:   userID,
			CreatedAt:   now,
		}

		if in.LotID != "" {
			lot, err := lotRepo.GetByIDForUpdate(ctx, in.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return domain.ErrNotFound
			}
			if lot.ProduitID != in.ProduitID {
				return domain.ChampInvalide("lot_id", "le lot n'appartient pas à ce produit")
			}
			if lot.Statut != entity.LotStatutDisponible {
				return domain.ErrLotIndisponible
			}
			if lot.QuantiteRestante.LessThan(in.Quantite) {
				return domain.ErrStockInsuffisant
			}
			if err := appliquerPrelevement(ctx, lotRepo, mouvementRepo,
				domstock.Prelevement{Lot: lot, Quantite: in.Quantite}, modele); err != nil {
				return err
			}
		} else {
			lots, err := lotRepo.ListByProduitForUpdate(ctx, in.ProduitID)
			if err != nil {
				return err
			}
			plan, err := domstock.PlanifierRetrait(lots, in.Quantite)
			if err != nil {
				return err
			}
			for _, p := range plan {
				if err := appliquerPrelevement(ctx, lotRepo, mouvementRepo, p, modele); err != nil {
					return err
				}
			}
		}
		return ajustementRepo.CreatePerte(ctx, perte)
	})
	if err != nil {
		return nil, err
	}
	return perte, nil
}

func (uc *PerteUseCase) getProduit(ctx context.Context, produitID string) (*entity.Produit, error) {
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
