package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Types de mouvement de stock.
const (
	MouvementTypeIN  = "IN"
	MouvementTypeOUT = "OUT"
)

// Origines d'un mouvement de stock.
const (
	OrigineReception     = "RECEPTION"
	OrigineProductionIn  = "PRODUCTION_IN"
	OrigineProductionOut = "PRODUCTION_OUT"
	OrigineAjustement    = "ADJUSTMENT"
	OriginePerte         = "LOSS"
)

// Types de produit concernés par un mouvement.
const (
	TypeProduitMP = "MP" // matière première
	TypeProduitPF = "PF" // produit fini
)

// MouvementStock écriture immuable du grand livre de stock (append-only).
// Invariant de cohérence : pour chaque produit, la somme signée des mouvements
// égale la somme des quantités restantes de ses lots actifs. Seuls le
// réconciliateur de réception et les procédures de consommation écrivent ici.
type MouvementStock struct {
	ID          string
	Type        string // IN / OUT
	Origine     string
	TypeProduit string // MP / PF
	ProduitID   string
	LotID       string
	Quantite    decimal.Decimal // toujours positive ; le signe vient de Type
	Reference   string          // document d'origine : BC, ordre de fabrication, ajustement...
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
}
