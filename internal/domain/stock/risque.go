package stock

import (
	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
)

// Niveaux de risque d'un ajustement d'inventaire.
// LOW = auto-approuvé, MEDIUM = validation simple, CRITICAL = double validation.
const (
	RisqueLow      = "LOW"
	RisqueMedium   = "MEDIUM"
	RisqueCritical = "CRITICAL"
)

// PlafondValeurCritique au-delà de cette valeur absolue (en unités monétaires),
// l'ajustement est CRITICAL quel que soit le pourcentage d'écart.
var PlafondValeurCritique = decimal.NewFromInt(50000)

// seuilsRisque seuils d'écart en % par catégorie : [auto-approbation, validation simple].
// Les produits finis ont les seuils les plus stricts.
var seuilsRisque = map[string][2]decimal.Decimal{
	entity.CategorieMPPerissable:    {decimal.NewFromInt(2), decimal.NewFromInt(5)},
	entity.CategorieMPNonPerissable: {decimal.NewFromInt(3), decimal.NewFromInt(8)},
	entity.CategorieProduitFini:     {decimal.NewFromInt(1), decimal.NewFromInt(3)},
}

// ClassifierAjustement classe un ajustement selon la catégorie du produit,
// le pourcentage d'écart (en valeur absolue) et la valeur monétaire absolue.
// Catégorie inconnue : traitée avec les seuils produit fini (les plus stricts).
func ClassifierAjustement(categorie string, ecartPct, valeur decimal.Decimal) string {
	if valeur.Abs().GreaterThan(PlafondValeurCritique) {
		return RisqueCritical
	}
	seuils, ok := seuilsRisque[categorie]
	if !ok {
		seuils = seuilsRisque[entity.CategorieProduitFini]
	}
	pct := ecartPct.Abs()
	switch {
	case pct.LessThanOrEqual(seuils[0]):
		return RisqueLow
	case pct.LessThanOrEqual(seuils[1]):
		return RisqueMedium
	default:
		return RisqueCritical
	}
}

// ValidationsRequises nombre de validations humaines exigées par niveau.
func ValidationsRequises(niveau string) int {
	switch niveau {
	case RisqueLow:
		return 0
	case RisqueMedium:
		return 1
	default:
		return 2
	}
}
