package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'un lot de stock.
const (
	LotStatutDisponible = "AVAILABLE"
	LotStatutBloque     = "BLOCKED"
	LotStatutConsomme   = "CONSUMED"
)

// Lot unité d'inventaire de matière première (ou de produit fini, sans
// fournisseur). QuantiteInitiale est immuable après création ; QuantiteRestante
// décroît par consommation et respecte 0 ≤ restante ≤ initiale en permanence.
type Lot struct {
	ID               string
	NumeroLot        string // unique
	ProduitID        string
	FournisseurID    string // vide pour un produit fini
	QuantiteInitiale decimal.Decimal
	QuantiteRestante decimal.Decimal
	DateFabrication  time.Time
	DateExpiration   *time.Time // nil = pas de DLC
	Statut           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EstExpire vrai si la DLC est dépassée à la date donnée.
func (l *Lot) EstExpire(asOf time.Time) bool {
	return l.DateExpiration != nil && !l.DateExpiration.After(asOf)
}

// EstEligible vrai si le lot peut être sélectionné pour consommation :
// disponible, non expiré, quantité restante strictement positive.
func (l *Lot) EstEligible(asOf time.Time) bool {
	return l.Statut == LotStatutDisponible &&
		!l.EstExpire(asOf) &&
		l.QuantiteRestante.GreaterThan(decimal.Zero)
}
