// Package stock regroupe les règles pures du grand livre de stock :
// sélection FIFO des lots, garde-fous anti-fraude des comptages et
// classification de risque des ajustements.
package stock

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// Prelevement quantité à prélever sur un lot donné par le plan FIFO.
type Prelevement struct {
	Lot      *entity.Lot
	Quantite decimal.Decimal
}

// TrierFIFO ordonne les lots pour consommation :
//  1. les lots avec DLC passent avant les lots sans DLC (DLC nulle consommée en dernier) ;
//  2. parmi les lots avec DLC, DLC croissante (le plus proche de périmer d'abord) ;
//  3. égalité départagée par date de création croissante (lot le plus ancien d'abord).
func TrierFIFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch {
		case a.DateExpiration != nil && b.DateExpiration == nil:
			return true
		case a.DateExpiration == nil && b.DateExpiration != nil:
			return false
		case a.DateExpiration != nil && b.DateExpiration != nil:
			if !a.DateExpiration.Equal(*b.DateExpiration) {
				return a.DateExpiration.Before(*b.DateExpiration)
			}
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// LotsEligibles filtre les lots sélectionnables à la date donnée :
// statut AVAILABLE, non expirés, quantité restante positive.
func LotsEligibles(lots []*entity.Lot, asOf time.Time) []*entity.Lot {
	out := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.EstEligible(asOf) {
			out = append(out, l)
		}
	}
	return out
}

// PlanifierRetrait variante de PlanifierConsommation qui ignore la DLC :
// un retrait pour perte ou ajustement négatif doit pouvoir vider un lot
// expiré (c'est souvent précisément lui qui part à la benne). Seuls le
// statut AVAILABLE et une quantité restante positive sont exigés.
func PlanifierRetrait(lots []*entity.Lot, quantite decimal.Decimal) ([]Prelevement, error) {
	if !quantite.GreaterThan(decimal.Zero) {
		return nil, domain.ChampInvalide("quantite", "doit être strictement positive")
	}

	actifs := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.Statut == entity.LotStatutDisponible && l.QuantiteRestante.GreaterThan(decimal.Zero) {
			actifs = append(actifs, l)
		}
	}
	TrierFIFO(actifs)

	plan := []Prelevement{}
	restant := quantite
	for _, lot := range actifs {
		if !restant.GreaterThan(decimal.Zero) {
			break
		}
		prise := decimal.Min(lot.QuantiteRestante, restant)
		plan = append(plan, Prelevement{Lot: lot, Quantite: prise})
		restant = restant.Sub(prise)
	}
	if restant.GreaterThan(decimal.Zero) {
		return nil, domain.ErrStockInsuffisant
	}
	return plan, nil
}

// PlanifierConsommation construit le plan de prélèvement FIFO pour une quantité
// demandée : parcourt les lots éligibles triés, vide chaque lot avant de passer
// au suivant. Pure : ne mute aucun lot. ErrStockInsuffisant si les lots
// éligibles ne couvrent pas la quantité.
func PlanifierConsommation(lots []*entity.Lot, quantite decimal.Decimal, asOf time.Time) ([]Prelevement, error) {
	if !quantite.GreaterThan(decimal.Zero) {
		return nil, domain.ChampInvalide("quantite", "doit être strictement positive")
	}

	eligibles := LotsEligibles(lots, asOf)
	TrierFIFO(eligibles)

	plan := []Prelevement{}
	restant := quantite
	for _, lot := range eligibles {
		if !restant.GreaterThan(decimal.Zero) {
			break
		}
		prise := decimal.Min(lot.QuantiteRestante, restant)
		plan = append(plan, Prelevement{Lot: lot, Quantite: prise})
		restant = restant.Sub(prise)
	}
	if restant.GreaterThan(decimal.Zero) {
		return nil, domain.ErrStockInsuffisant
	}
	return plan, nil
}
