package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDemandeRequest body pour POST /api/demandes.
type CreateDemandeRequest struct {
	Lignes []DemandeLigneRequest `json:"lignes"`
}

// DemandeLigneRequest une matière première demandée.
type DemandeLigneRequest struct {
	ProduitID string          `json:"produit_id"`
	Quantite  decimal.Decimal `json:"quantite"`
	Note      string          `json:"note,omitempty"`
}

// TransitionRequest body pour POST /api/demandes/:id/transition et
// POST /api/bons-commande/:id/transition.
type TransitionRequest struct {
	Statut        string `json:"statut"`
	Justification string `json:"justification,omitempty"`
}

// ActionsResponse actions disponibles depuis le statut courant (indices UI).
type ActionsResponse struct {
	Statut  string   `json:"statut"`
	Actions []string `json:"actions"`
}

// GenerateBcRequest body pour POST /api/demandes/:id/generer-bc.
type GenerateBcRequest struct {
	DateLivraisonPrevue *time.Time     `json:"date_livraison_prevue,omitempty"`
	AdresseLivraison    string         `json:"adresse_livraison,omitempty"`
	PrixOverrides       []PrixOverride `json:"prix_overrides,omitempty"`
}

// PrixOverride prix unitaire imposé pour une matière première donnée.
type PrixOverride struct {
	ProduitID    string          `json:"produit_mp_id"`
	PrixUnitaire decimal.Decimal `json:"prix_unitaire"`
}

// GenerateBcResponse résultat de la génération : un BC par fournisseur.
type GenerateBcResponse struct {
	Count         int           `json:"count"`
	BonsCommandes []BcGenereDTO `json:"purchase_orders"`
}

// BcGenereDTO résumé d'un BC généré.
type BcGenereDTO struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	FournisseurID string          `json:"fournisseur_id"`
	TotalHT       decimal.Decimal `json:"total_ht"`
	NbLignes      int             `json:"nb_lignes"`
}

// ReceptionBcRequest body pour POST /api/bons-commande/:id/reception.
// IdempotencyKey identifie l'événement physique de livraison : un rejeu avec
// la même clé ne crédite pas le stock une seconde fois.
type ReceptionBcRequest struct {
	Lignes         []ReceptionLigneRequest `json:"lignes"`
	NumeroBL       string                  `json:"numero_bl,omitempty"`
	DateReception  *time.Time              `json:"date_reception,omitempty"`
	IdempotencyKey string                  `json:"idempotency_key,omitempty"`
}

// ReceptionLigneRequest quantité reçue sur une ligne du BC, avec les
// métadonnées de lot facultatives.
type ReceptionLigneRequest struct {
	LigneID        string          `json:"item_id"`
	QuantiteRecue  decimal.Decimal `json:"quantite_recue"`
	NumeroLot      string          `json:"numero_lot,omitempty"`
	DateExpiration *time.Time      `json:"date_expiration,omitempty"`
	Note           string          `json:"note,omitempty"`
}

// ReceptionBcResponse résultat de la réconciliation de réception.
type ReceptionBcResponse struct {
	NouveauStatut      string `json:"nouveau_statut"`
	ReceptionReference string `json:"reception_reference"`
	MouvementsCrees    int    `json:"mouvements_crees"`
	DemandeCloturee    bool   `json:"demande_cloturee"`
}

// CancelBcRequest body pour POST /api/bons-commande/:id/annulation.
type CancelBcRequest struct {
	Motif          string `json:"motif"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// CancelBcResponse résultat de l'annulation.
type CancelBcResponse struct {
	NouveauStatut string    `json:"nouveau_statut"`
	CancelledAt   time.Time `json:"cancelled_at"`
}
