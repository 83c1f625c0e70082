package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mlefevre/Laiterie-api/internal/domain/entity"
	"github.com/mlefevre/Laiterie-api/internal/domain/stock"
)

func pct(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }
func euros(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ── Seuils par catégorie ──────────────────────────────────────────────────────

func TestClassifierAjustement_MPPerissable(t *testing.T) {
	cat := entity.CategorieMPPerissable

	assert.Equal(t, stock.RisqueLow, stock.ClassifierAjustement(cat, pct(2), euros(100)),
		"le plafond d'auto-approbation du périssable est inclus")
	assert.Equal(t, stock.RisqueMedium, stock.ClassifierAjustement(cat, pct(3.5), euros(100)))
	assert.Equal(t, stock.RisqueMedium, stock.ClassifierAjustement(cat, pct(5), euros(100)))
	assert.Equal(t, stock.RisqueCritical, stock.ClassifierAjustement(cat, pct(5.01), euros(100)))
}

func TestClassifierAjustement_MPNonPerissable(t *testing.T) {
	cat := entity.CategorieMPNonPerissable

	assert.Equal(t, stock.RisqueLow, stock.ClassifierAjustement(cat, pct(3), euros(100)))
	assert.Equal(t, stock.RisqueMedium, stock.ClassifierAjustement(cat, pct(8), euros(100)))
	assert.Equal(t, stock.RisqueCritical, stock.ClassifierAjustement(cat, pct(9), euros(100)))
}

func TestClassifierAjustement_ProduitFini(t *testing.T) {
	cat := entity.CategorieProduitFini

	assert.Equal(t, stock.RisqueLow, stock.ClassifierAjustement(cat, pct(1), euros(100)))
	assert.Equal(t, stock.RisqueMedium, stock.ClassifierAjustement(cat, pct(2), euros(100)))
	assert.Equal(t, stock.RisqueCritical, stock.ClassifierAjustement(cat, pct(4), euros(100)))
}

func TestClassifierAjustement_CategorieInconnueSeuilsStricts(t *testing.T) {
	// Catégorie non référencée : seuils produit fini, les plus stricts.
	assert.Equal(t, stock.RisqueMedium, stock.ClassifierAjustement("AUTRE", pct(2), euros(100)))
}

func TestClassifierAjustement_EcartNegatifEnValeurAbsolue(t *testing.T) {
	assert.Equal(t, stock.RisqueMedium,
		stock.ClassifierAjustement(entity.CategorieMPPerissable, pct(-4), euros(100)))
}

// ── Plafond monétaire ─────────────────────────────────────────────────────────

func TestClassifierAjustement_PlafondValeurEcraseLePourcentage(t *testing.T) {
	// Écart minuscule en %, mais 60 000 en valeur : CRITICAL quoi qu'il arrive.
	assert.Equal(t, stock.RisqueCritical,
		stock.ClassifierAjustement(entity.CategorieMPNonPerissable, pct(0.1), euros(60000)))
	assert.Equal(t, stock.RisqueCritical,
		stock.ClassifierAjustement(entity.CategorieMPNonPerissable, pct(0.1), euros(-60000)),
		"le plafond se compare en valeur absolue")
}

func TestClassifierAjustement_PlafondExactResteSurLesSeuils(t *testing.T) {
	// Exactement 50 000 : le plafond exige strictement supérieur.
	assert.Equal(t, stock.RisqueLow,
		stock.ClassifierAjustement(entity.CategorieMPNonPerissable, pct(1), euros(50000)))
}

// ── Nombre de validations ─────────────────────────────────────────────────────

func TestValidationsRequises(t *testing.T) {
	assert.Equal(t, 0, stock.ValidationsRequises(stock.RisqueLow))
	assert.Equal(t, 1, stock.ValidationsRequises(stock.RisqueMedium))
	assert.Equal(t, 2, stock.ValidationsRequises(stock.RisqueCritical))
}
