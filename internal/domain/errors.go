package domain

import (
	"errors"
	"fmt"
)

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound          = errors.New("ressource introuvable")
	ErrInvalidInput      = errors.New("entrée invalide")
	ErrDuplicate         = errors.New("ressource dupliquée")
	ErrUnauthorized      = errors.New("non autorisé")
	ErrForbidden         = errors.New("accès refusé")
	ErrConflict          = errors.New("conflit avec l'état actuel")
	ErrStockInsuffisant  = errors.New("stock insuffisant")
	ErrLotIndisponible   = errors.New("lot expiré, bloqué ou épuisé")
	ErrAutoValidation    = errors.New("le déclarant d'un comptage ne peut pas le valider lui-même")
	ErrCooldownActif     = errors.New("délai minimum entre deux déclarations non écoulé")
	ErrEmailDejaUtilise  = errors.New("email déjà enregistré")
	ErrFournisseurAbsent = errors.New("produit sans fournisseur par défaut")
)

// ChampInvalideError erreur utilisateur : nomme le champ fautif pour que la
// couche de présentation affiche une correction précise.
type ChampInvalideError struct {
	Champ   string
	Message string
}

func (e *ChampInvalideError) Error() string {
	return fmt.Sprintf("champ %q invalide: %s", e.Champ, e.Message)
}

func (e *ChampInvalideError) Unwrap() error { return ErrInvalidInput }

// ChampInvalide construit une ChampInvalideError.
func ChampInvalide(champ, message string) error {
	return &ChampInvalideError{Champ: champ, Message: message}
}
