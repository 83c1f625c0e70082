package workflow

import (
	"fmt"
	"strings"
)

// MinJustificationLen longueur minimale (après trim) d'une justification obligatoire.
const MinJustificationLen = 10

// Prédicats bloquants nommés, évalués par le guard à partir du Context fourni.
const (
	// PredicatBlocageReceptionPartielle bloque la transition si le bon de commande
	// a déjà enregistré au moins une réception partielle.
	PredicatBlocageReceptionPartielle = "blocage_si_reception_partielle"
)

// Rule une ligne de la table de transitions : arête (From → To) annotée.
// Roles vide = transition réservée à ADMIN (l'override ADMIN est implicite sur
// toutes les lignes, voir Guard).
type Rule struct {
	From                  string
	To                    string
	Action                string // nom d'action exposé à l'UI ("envoyer", "receptionner", ...)
	Roles                 []Role
	Irreversible          bool
	RequiresJustification bool
	BlockingPredicate     string // vide = aucun prédicat
}

// Context données d'évaluation fournies par l'appelant au guard.
// Le guard reste une fonction pure : tout l'état nécessaire passe par ici.
type Context struct {
	Justification       string
	HasPartialReception bool
}

// ErrorCode code d'erreur du guard. Déterministe : jamais réessayé, toujours
// remonté tel quel à l'acteur avec le contexte permettant de corriger.
type ErrorCode string

const (
	ErrCodeInvalidTransition         ErrorCode = "INVALID_TRANSITION"
	ErrCodeRoleNotAuthorized         ErrorCode = "ROLE_NOT_AUTHORIZED"
	ErrCodeJustificationRequired     ErrorCode = "JUSTIFICATION_REQUIRED"
	ErrCodeBlockedByPartialReception ErrorCode = "BLOCKED_BY_PARTIAL_RECEPTION"
)

// TransitionError échec structuré du guard : code + contexte de correction.
type TransitionError struct {
	Code            ErrorCode
	Entity          string
	CurrentStatus   string
	TargetStatus    string
	AllowedStatuses []string // INVALID_TRANSITION : statuts atteignables depuis CurrentStatus
	RequiredRoles   []Role   // ROLE_NOT_AUTHORIZED : rôles déclarés par la ligne (ADMIN implicite omis)
	MinJustifLen    int      // JUSTIFICATION_REQUIRED
}

func (e *TransitionError) Error() string {
	switch e.Code {
	case ErrCodeInvalidTransition:
		return fmt.Sprintf("%s: transition %s → %s invalide (statuts atteignables: %s)",
			e.Entity, e.CurrentStatus, e.TargetStatus, strings.Join(e.AllowedStatuses, ", "))
	case ErrCodeRoleNotAuthorized:
		roles := make([]string, len(e.RequiredRoles))
		for i, r := range e.RequiredRoles {
			roles[i] = string(r)
		}
		return fmt.Sprintf("%s: rôle non autorisé pour %s → %s (rôles requis: %s)",
			e.Entity, e.CurrentStatus, e.TargetStatus, strings.Join(roles, ", "))
	case ErrCodeJustificationRequired:
		return fmt.Sprintf("%s: justification obligatoire pour %s → %s (minimum %d caractères)",
			e.Entity, e.CurrentStatus, e.TargetStatus, e.MinJustifLen)
	case ErrCodeBlockedByPartialReception:
		return fmt.Sprintf("%s: transition %s → %s bloquée, une réception partielle a déjà été enregistrée",
			e.Entity, e.CurrentStatus, e.TargetStatus)
	}
	return fmt.Sprintf("%s: transition %s → %s refusée (%s)", e.Entity, e.CurrentStatus, e.TargetStatus, e.Code)
}
