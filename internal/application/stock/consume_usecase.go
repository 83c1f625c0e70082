package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/application/dto"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/repository"
	domstock "github.com/mlefevre/Laiterie-api/internal/domain/stock"
)

// ConsommationUseCase mouvements de stock liés à la production : sortie FIFO
// des matières premières, entrée des produits finis.
type ConsommationUseCase struct {
	txRunner    TxRunner
	produitRepo repository.ProduitRepository
}

// NewConsommationUseCase construit le cas d'usage.
func NewConsommationUseCase(txRunner TxRunner, produitRepo repository.ProduitRepository) *ConsommationUseCase {
	return &ConsommationUseCase{txRunner: txRunner, produitRepo: produitRepo}
}

// Consommer prélève la quantité demandée sur les lots du produit, dans l'ordre
// FIFO (DLC la plus proche d'abord, lots sans DLC en dernier). Les lots vidés
// passent en CONSUMED. Un mouvement OUT est écrit par lot prélevé.
func (uc *ConsommationUseCase) Consommer(ctx context.Context, userID string, in dto.ConsommationRequest) (*dto.ConsommationResponse, error) {
	if in.Reference == "" {
		return nil, domain.ChampInvalide("reference", "ordre de fabrication requis")
	}
	produit, err := uc.getProduit(ctx, in.ProduitID)
	if err != nil {
		return nil, err
	}

	var resp *dto.ConsommationResponse
	err = uc.txRunner.RunStock(ctx, func(
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		_ repository.AjustementRepository,
	) error {
		lots, err := lotRepo.ListByProduitForUpdate(ctx, in.ProduitID)
		if err != nil {
			return err
		}
		now := time.Now()
		plan, err := domstock.PlanifierConsommation(lots, in.Quantite, now)
		if err != nil {
			return err
		}

		resp = &dto.ConsommationResponse{}
		for _, p := range plan {
			if err := appliquerPrelevement(ctx, lotRepo, mouvementRepo, p, entity.MouvementStock{
				Type:        entity.MouvementTypeOUT,
				Origine:     entity.OrigineProductionOut,
				TypeProduit: produit.Type,
				ProduitID:   in.ProduitID,
				Reference:   in.Reference,
				CreatedBy:   userID,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			resp.Prelevements = append(resp.Prelevements, dto.PrelevementDTO{
				LotID:     p.Lot.ID,
				NumeroLot: p.Lot.NumeroLot,
				Quantite:  p.Quantite,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// EntreeProduction enregistre un lot de produit fini sorti de fabrication.
// Le numéro de lot vient de la production et doit être inédit pour le produit.
func (uc *ConsommationUseCase) EntreeProduction(ctx context.Context, userID string, in dto.EntreeProductionRequest) (*entity.Lot, error) {
	if !in.Quantite.GreaterThan(decimal.Zero) {
		return nil, domain.ChampInvalide("quantite", "doit être strictement positive")
	}
	if in.NumeroLot == "" {
		return nil, domain.ChampInvalide("numero_lot", "numéro de lot requis")
	}
	if in.Reference == "" {
		return nil, domain.ChampInvalide("reference", "ordre de fabrication requis")
	}
	produit, err := uc.getProduit(ctx, in.ProduitID)
	if err != nil {
		return nil, err
	}
	if produit.Type != entity.TypeProduitPF {
		return nil, domain.ChampInvalide("produit_id", "seul un produit fini entre en stock par production")
	}

	var lot *entity.Lot
	err = uc.txRunner.RunStock(ctx, func(
		lotRepo repository.LotRepository,
		mouvementRepo repository.MouvementStockRepository,
		_ repository.AjustementRepository,
	) error {
		existant, err := lotRepo.GetByNumero(ctx, in.ProduitID, in.NumeroLot)
		if err != nil {
			return err
		}
		if existant != nil {
			return domain.ErrDuplicate
		}
		now := time.Now()
		lot = &entity.Lot{
			ID:               uuid.New().String(),
			NumeroLot:        in.NumeroLot,
			ProduitID:        in.ProduitID,
			QuantiteInitiale: in.Quantite,
			QuantiteRestante: in.Quantite,
			DateFabrication:  now,
			DateExpiration:   in.DateExpiration,
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
			Origine:     entity.OrigineProductionIn,
			TypeProduit: entity.TypeProduitPF,
			ProduitID:   in.ProduitID,
			LotID:       lot.ID,
			Quantite:    in.Quantite,
			Reference:   in.Reference,
			CreatedBy:   userID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

func (uc *ConsommationUseCase) getProduit(ctx context.Context, produitID string) (*entity.Produit, error) {
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

// appliquerPrelevement débite le lot du prélèvement, le passe en CONSUMED s'il
// est vidé, et écrit le mouvement OUT correspondant. modele porte les champs
// communs du mouvement ; lot, quantité et ID sont remplis ici.
func appliquerPrelevement(
	ctx context.Context,
	lotRepo repository.LotRepository,
	mouvementRepo repository.MouvementStockRepository,
	p domstock.Prelevement,
	modele entity.MouvementStock,
) error {
	p.Lot.QuantiteRestante = p.Lot.QuantiteRestante.Sub(p.Quantite)
	if p.Lot.QuantiteRestante.IsZero() {
		p.Lot.Statut = entity.LotStatutConsomme
	}
	p.Lot.UpdatedAt = time.Now()
	if err := lotRepo.UpdateQuantites(ctx, p.Lot); err != nil {
		return err
	}
	modele.ID = uuid.New().String()
	modele.LotID = p.Lot.ID
	modele.Quantite = p.Quantite
	return mouvementRepo.Create(ctx, &modele)
}
