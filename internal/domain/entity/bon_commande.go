package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BonCommande représente un bon de commande fournisseur (BC), issu d'exactement
// une demande validée. Une demande peut éclater en plusieurs BC, un par
// fournisseur. Réceptionné livraison par livraison jusqu'à complétude.
type BonCommande struct {
	ID                  string
	Reference           string // BC-2026-0001-LAC
	DemandeID           string
	FournisseurID       string
	Statut              string // workflow.Bc*
	AdresseLivraison    string
	DateLivraisonPrevue *time.Time
	MotifAnnulation     string
	CancelledAt         *time.Time
	Lignes              []BonCommandeLigne
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// BonCommandeLigne une matière première commandée : quantité commandée,
// cumul reçu au fil des réceptions, prix unitaire négocié.
type BonCommandeLigne struct {
	ID            string
	BonCommandeID string
	ProduitID     string
	Quantite      decimal.Decimal
	QuantiteRecue decimal.Decimal
	PrixUnitaire  decimal.Decimal
}

// AReceptionPartielle vrai si au moins une ligne a déjà reçu du stock.
// Alimente le prédicat bloquant de l'annulation.
func (bc *BonCommande) AReceptionPartielle() bool {
	for _, l := range bc.Lignes {
		if l.QuantiteRecue.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// EstComplet vrai si chaque ligne a reçu au moins sa quantité commandée.
func (bc *BonCommande) EstComplet() bool {
	for _, l := range bc.Lignes {
		if l.QuantiteRecue.LessThan(l.Quantite) {
			return false
		}
	}
	return true
}

// TotalHT somme des lignes (quantité × prix unitaire), hors taxes.
func (bc *BonCommande) TotalHT() decimal.Decimal {
	total := decimal.Zero
	for _, l := range bc.Lignes {
		total = total.Add(l.Quantite.Mul(l.PrixUnitaire))
	}
	return total
}
