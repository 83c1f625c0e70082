package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// CooldownDeclaration délai minimum entre deux déclarations d'inventaire d'un
// même utilisateur sur le même périmètre.
const CooldownDeclaration = 4 * time.Hour

// SeuilSerieNegative nombre d'écarts négatifs consécutifs (physique < théorique)
// à partir duquel une série est signalée suspecte.
const SeuilSerieNegative = 3

// PeutValider séparation comptage/validation : celui qui a compté ne valide
// jamais son propre comptage. Rejet inconditionnel si les identités coïncident.
func PeutValider(compteurID, validateurID string) bool {
	return compteurID != validateurID
}

// PeutSecondeValider double validation (palier CRITICAL) : le second validateur
// doit différer à la fois du premier validateur et du compteur d'origine.
func PeutSecondeValider(compteurID, premierValidateurID, secondValidateurID string) bool {
	return secondValidateurID != premierValidateurID && secondValidateurID != compteurID
}

// CooldownActif vrai si la dernière déclaration est trop récente.
func CooldownActif(derniereDeclaration, now time.Time) bool {
	return now.Sub(derniereDeclaration) < CooldownDeclaration
}

// SerieNegativeSuspecte vrai si les écarts (du plus ancien au plus récent)
// contiennent une série d'au moins SeuilSerieNegative écarts négatifs
// consécutifs. Signalée pour examen, pas rejetée automatiquement.
func SerieNegativeSuspecte(ecarts []decimal.Decimal) bool {
	serie := 0
	for _, e := range ecarts {
		if e.IsNegative() {
			serie++
			if serie >= SeuilSerieNegative {
				return true
			}
		} else {
			serie = 0
		}
	}
	return false
}
