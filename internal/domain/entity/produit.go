package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/mlefevre/Laiterie-api/internal/domain"
)

// Catégories de produit (pilotent les seuils de risque des ajustements).
const (
	CategorieMPPerissable    = "MP_PERISSABLE"
	CategorieMPNonPerissable = "MP_NON_PERISSABLE"
	CategorieProduitFini     = "PRODUIT_FINI"
)

// Produit matière première ou produit fini du catalogue.
// CoutUnitaire sert à valoriser les ajustements d'inventaire ; FournisseurID
// est le fournisseur par défaut utilisé pour la génération des BC.
type Produit struct {
	ID            string
	Code          string // unique, ex. MP-LAIT-01
	Nom           string
	Type          string // MP / PF
	Categorie     string
	FournisseurID string // vide pour un produit fini
	CoutUnitaire  decimal.Decimal
	UniteMesure   string // L, kg, unité...
	SeuilAlerte   decimal.Decimal // seuil de sécurité
	SeuilCommande decimal.Decimal // déclenche une demande d'appro ; doit être > SeuilAlerte
	Actif         bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValiderSeuils refuse une paire de seuils incohérente : le seuil de commande
// doit être strictement supérieur au seuil d'alerte.
func (p *Produit) ValiderSeuils() error {
	if p.SeuilCommande.LessThanOrEqual(p.SeuilAlerte) {
		return domain.ChampInvalide("seuil_commande", "doit être strictement supérieur au seuil d'alerte")
	}
	return nil
}
