package entity

import "time"

// Reception en-tête d'une réception de livraison contre un bon de commande.
// IdempotencyKey garantit qu'un même événement physique de livraison ne crédite
// le stock qu'une seule fois : un rejeu avec la même clé renvoie le snapshot
// enregistré (StatutResultant, MouvementsCrees, DemandeCloturee) sans mutation.
type Reception struct {
	ID              string
	Reference       string // REC-2026-0001
	BonCommandeID   string
	NumeroBL        string // bon de livraison fournisseur
	DateReception   time.Time
	IdempotencyKey  string
	StatutResultant string // PARTIAL ou RECEIVED
	MouvementsCrees int
	DemandeCloturee bool
	CreatedBy       string
	CreatedAt       time.Time
}
