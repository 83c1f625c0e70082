package entity

import "time"

// Fournisseur fournisseur de matières premières.
type Fournisseur struct {
	ID                  string
	Nom                 string
	Email               string
	Telephone           string
	Adresse             string
	DelaiLivraisonJours int
	Actif               bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
