package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AjustementRequest body pour POST /api/stock/ajustements.
type AjustementRequest struct {
	ProduitID        string          `json:"produit_id"`
	QuantitePhysique decimal.Decimal `json:"quantite_physique"`
	Motif            string          `json:"motif"`
	PhotosPreuve     []string        `json:"photos_preuve,omitempty"`
}

// AjustementResponse ajustement créé avec sa classification de risque.
type AjustementResponse struct {
	ID           string          `json:"id"`
	Ecart        decimal.Decimal `json:"ecart"`
	EcartPct     decimal.Decimal `json:"ecart_pct"`
	Valeur       decimal.Decimal `json:"valeur"`
	NiveauRisque string          `json:"niveau_risque"`
	Statut       string          `json:"statut"`
	Suspect      bool            `json:"suspect"`
}

// PerteRequest body pour POST /api/stock/pertes.
type PerteRequest struct {
	TypeProduit  string          `json:"type_produit"`
	ProduitID    string          `json:"produit_id"`
	LotID        string          `json:"lot_id,omitempty"`
	Quantite     decimal.Decimal `json:"quantite"`
	Motif        string          `json:"motif"`
	Description  string          `json:"description"`
	PhotosPreuve []string        `json:"photos_preuve,omitempty"`
}

// ConsommationRequest body pour POST /api/stock/consommations (sortie production FIFO).
type ConsommationRequest struct {
	ProduitID string          `json:"produit_id"`
	Quantite  decimal.Decimal `json:"quantite"`
	Reference string          `json:"reference"` // ordre de fabrication
}

// ConsommationResponse plan de prélèvement appliqué.
type ConsommationResponse struct {
	Prelevements []PrelevementDTO `json:"prelevements"`
}

// PrelevementDTO quantité prélevée sur un lot.
type PrelevementDTO struct {
	LotID     string          `json:"lot_id"`
	NumeroLot string          `json:"numero_lot"`
	Quantite  decimal.Decimal `json:"quantite"`
}

// EntreeProductionRequest body pour POST /api/stock/production (entrée produit fini).
type EntreeProductionRequest struct {
	ProduitID      string          `json:"produit_id"`
	Quantite       decimal.Decimal `json:"quantite"`
	NumeroLot      string          `json:"numero_lot"`
	DateExpiration *time.Time      `json:"date_expiration,omitempty"`
	Reference      string          `json:"reference"` // ordre de fabrication
}
