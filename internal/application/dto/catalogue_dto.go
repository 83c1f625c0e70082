package dto

import "github.com/shopspring/decimal"

// ProduitRequest body pour POST/PUT /api/produits.
type ProduitRequest struct {
	Code          string          `json:"code"`
	Nom           string          `json:"nom"`
	Type          string          `json:"type"`      // MP / PF
	Categorie     string          `json:"categorie"` // MP_PERISSABLE, MP_NON_PERISSABLE, PRODUIT_FINI
	FournisseurID string          `json:"fournisseur_id,omitempty"`
	CoutUnitaire  decimal.Decimal `json:"cout_unitaire"`
	UniteMesure   string          `json:"unite_mesure"`
	SeuilAlerte   decimal.Decimal `json:"seuil_alerte"`
	SeuilCommande decimal.Decimal `json:"seuil_commande"`
}

// FournisseurRequest body pour POST /api/fournisseurs.
type FournisseurRequest struct {
	Nom                 string `json:"nom"`
	Email               string `json:"email,omitempty"`
	Telephone           string `json:"telephone,omitempty"`
	Adresse             string `json:"adresse,omitempty"`
	DelaiLivraisonJours int    `json:"delai_livraison_jours,omitempty"`
}
