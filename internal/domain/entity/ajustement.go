package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'un ajustement d'inventaire.
const (
	AjustementAutoApprouve      = "AUTO_APPROVED"
	AjustementEnAttente         = "PENDING_VALIDATION"
	AjustementAttenteSecondeVal = "PENDING_SECOND_VALIDATION"
	AjustementValide            = "VALIDATED"
	AjustementRejete            = "REJECTED"
)

// AjustementInventaire écart constaté entre stock théorique et comptage
// physique. Les identités ComptePar / ValidePar / SecondValidePar sont
// verrouillées par les règles anti-fraude : jamais la même personne.
type AjustementInventaire struct {
	ID                string
	ProduitID         string
	QuantiteTheorique decimal.Decimal
	QuantitePhysique  decimal.Decimal
	Ecart             decimal.Decimal // physique - théorique
	EcartPct          decimal.Decimal // en pourcentage du théorique
	Valeur            decimal.Decimal // |écart| × coût unitaire
	NiveauRisque      string          // stock.Risque*
	Statut            string
	Motif             string
	PhotosPreuve      []string
	Suspect           bool // série d'écarts négatifs signalée, à examiner
	ComptePar         string
	ValidePar         string
	SecondValidePar   string
	CreatedAt         time.Time
	ValideAt          *time.Time
}

// Motifs de déclaration de perte.
const (
	PerteMotifDLCExpiree    = "DLC_EXPIRED"
	PerteMotifDefautQualite = "QUALITY_DEFECT"
	PerteMotifCasse         = "DAMAGE"
	PerteMotifContamination = "CONTAMINATION"
	PerteMotifAjustementInv = "INVENTORY_ADJUSTMENT"
	PerteMotifAutre         = "OTHER"
)

// MotifPerteValide vrai si le motif appartient à l'énumération.
func MotifPerteValide(motif string) bool {
	switch motif {
	case PerteMotifDLCExpiree, PerteMotifDefautQualite, PerteMotifCasse,
		PerteMotifContamination, PerteMotifAjustementInv, PerteMotifAutre:
		return true
	}
	return false
}

// DeclarationPerte perte de stock déclarée (casse, DLC, contamination...).
type DeclarationPerte struct {
	ID           string
	TypeProduit  string // MP / PF
	ProduitID    string
	LotID        string // vide = consommation FIFO
	Quantite     decimal.Decimal
	Motif        string
	Description  string // minimum 20 caractères
	PhotosPreuve []string
	DeclarePar   string
	CreatedAt    time.Time
}
