package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Demande représente une demande d'approvisionnement interne émise par la
// production (matières premières à commander). Le statut n'est mutable qu'à
// travers le guard de workflow ; jamais supprimée, archivage seulement.
type Demande struct {
	ID            string
	Reference     string // DA-2026-0001
	Statut        string // workflow.Demande*
	DemandeurID   string
	Justification string // motif du dernier rejet, le cas échéant
	Lignes        []DemandeLigne
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DemandeLigne une matière première demandée avec sa quantité.
type DemandeLigne struct {
	ID        string
	DemandeID string
	ProduitID string
	Quantite  decimal.Decimal
	Note      string
}
