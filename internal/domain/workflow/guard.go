package workflow

import "strings"

// Table catalogue immuable des transitions légales d'une entité.
// Toute mutation de statut passe par AssertCanTransition ; la table est la
// seule source de vérité (pas de conditionnels éparpillés dans les services).
type Table struct {
	entity string
	rules  []Rule
}

// NewTable construit une table de transitions pour une entité.
func NewTable(entity string, rules []Rule) *Table {
	return &Table{entity: entity, rules: rules}
}

// Entity nom de l'entité régie par la table.
func (t *Table) Entity() string { return t.entity }

// Rules copie des lignes de la table (pour audit ou affichage du graphe complet).
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// AssertCanTransition vérifie qu'une transition est permise et retourne la ligne
// correspondante. Fonction pure, sans effet de bord : la persistance du nouveau
// statut et l'enregistrement d'audit restent à la charge de l'appelant.
//
// Ordre des vérifications :
//  1. existence de la ligne (from, to) → INVALID_TRANSITION avec les statuts atteignables ;
//  2. rôle autorisé, ADMIN toujours accepté → ROLE_NOT_AUTHORIZED ;
//  3. justification obligatoire, minimum 10 caractères après trim → JUSTIFICATION_REQUIRED ;
//  4. prédicat bloquant évalué sur le Context → BLOCKED_BY_PARTIAL_RECEPTION.
func (t *Table) AssertCanTransition(from, to string, role Role, ctx Context) (*Rule, error) {
	rule := t.find(from, to)
	if rule == nil {
		return nil, &TransitionError{
			Code:            ErrCodeInvalidTransition,
			Entity:          t.entity,
			CurrentStatus:   from,
			TargetStatus:    to,
			AllowedStatuses: t.AllowedFrom(from),
		}
	}
	if role != RoleAdmin && !roleAllowed(rule.Roles, role) {
		return nil, &TransitionError{
			Code:          ErrCodeRoleNotAuthorized,
			Entity:        t.entity,
			CurrentStatus: from,
			TargetStatus:  to,
			RequiredRoles: append([]Role(nil), rule.Roles...),
		}
	}
	if rule.RequiresJustification && len([]rune(strings.TrimSpace(ctx.Justification))) < MinJustificationLen {
		return nil, &TransitionError{
			Code:          ErrCodeJustificationRequired,
			Entity:        t.entity,
			CurrentStatus: from,
			TargetStatus:  to,
			MinJustifLen:  MinJustificationLen,
		}
	}
	if rule.BlockingPredicate == PredicatBlocageReceptionPartielle && ctx.HasPartialReception {
		return nil, &TransitionError{
			Code:          ErrCodeBlockedByPartialReception,
			Entity:        t.entity,
			CurrentStatus: from,
			TargetStatus:  to,
		}
	}
	r := *rule
	return &r, nil
}

// AllowedFrom statuts atteignables depuis un statut donné (dédupliqués, ordre de la table).
func (t *Table) AllowedFrom(from string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range t.rules {
		if r.From != from {
			continue
		}
		if _, ok := seen[r.To]; ok {
			continue
		}
		seen[r.To] = struct{}{}
		out = append(out, r.To)
	}
	return out
}

// IsTerminal vrai si aucune transition ne part du statut.
func (t *Table) IsTerminal(status string) bool {
	for _, r := range t.rules {
		if r.From == status {
			return false
		}
	}
	return true
}

// IsIrreversible vrai si le statut est terminal ou atteint par une transition
// irréversible : une fois dedans, plus de retour en arrière possible.
func (t *Table) IsIrreversible(status string) bool {
	if t.IsTerminal(status) {
		return true
	}
	for _, r := range t.rules {
		if r.To == status && r.Irreversible {
			return true
		}
	}
	return false
}

// AvailableTransitions lignes franchissables depuis un statut pour un rôle et
// un contexte donnés. Respecte l'override ADMIN et les prédicats bloquants ;
// la justification n'est pas évaluée ici (elle est fournie au moment de l'action).
func (t *Table) AvailableTransitions(from string, role Role, ctx Context) []Rule {
	out := []Rule{}
	for _, r := range t.rules {
		if r.From != from {
			continue
		}
		if role != RoleAdmin && !roleAllowed(r.Roles, role) {
			continue
		}
		if r.BlockingPredicate == PredicatBlocageReceptionPartielle && ctx.HasPartialReception {
			continue
		}
		out = append(out, r)
	}
	return out
}

// AvailableActions noms d'action disponibles depuis un statut, dédupliqués
// (SENT→PARTIAL et SENT→RECEIVED portent tous deux "receptionner").
func (t *Table) AvailableActions(from string, role Role, ctx Context) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range t.AvailableTransitions(from, role, ctx) {
		if _, ok := seen[r.Action]; ok {
			continue
		}
		seen[r.Action] = struct{}{}
		out = append(out, r.Action)
	}
	return out
}

func (t *Table) find(from, to string) *Rule {
	for i := range t.rules {
		if t.rules[i].From == from && t.rules[i].To == to {
			return &t.rules[i]
		}
	}
	return nil
}

func roleAllowed(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
