package workflow

// Statuts d'une demande d'approvisionnement.
const (
	DemandeDraft     = "DRAFT"
	DemandeSubmitted = "SUBMITTED"
	DemandeValidated = "VALIDATED"
	DemandeRejected  = "REJECTED"
	DemandeOrdering  = "ORDERING"
	DemandeOrdered   = "ORDERED"
	DemandeReceived  = "RECEIVED"
)

// Noms d'action du cycle de vie demande.
const (
	ActionSoumettre     = "soumettre"
	ActionValider       = "valider"
	ActionRejeter       = "rejeter"
	ActionCommander     = "commander"
	ActionCommandeEmise = "commande_emise"
	ActionReceptionner  = "receptionner"
)

// TableDemande table de transitions de la demande d'approvisionnement (7 lignes).
// VALIDATED → REJECTED est l'annulation d'une validation : réservée à ADMIN
// (Roles vide). ORDERING, ORDERED et RECEIVED ne sont atteints que par des
// transitions irréversibles.
var TableDemande = NewTable("demande", []Rule{
	{From: DemandeDraft, To: DemandeSubmitted, Action: ActionSoumettre, Roles: []Role{RoleProduction}},
	{From: DemandeSubmitted, To: DemandeValidated, Action: ActionValider, Roles: []Role{RoleAppro}},
	{From: DemandeSubmitted, To: DemandeRejected, Action: ActionRejeter, Roles: []Role{RoleAppro}, RequiresJustification: true},
	{From: DemandeValidated, To: DemandeOrdering, Action: ActionCommander, Roles: []Role{RoleAppro}, Irreversible: true},
	{From: DemandeValidated, To: DemandeRejected, Action: ActionRejeter, RequiresJustification: true},
	{From: DemandeOrdering, To: DemandeOrdered, Action: ActionCommandeEmise, Roles: []Role{RoleSystem}, Irreversible: true},
	{From: DemandeOrdered, To: DemandeReceived, Action: ActionReceptionner, Roles: []Role{RoleSystem}, Irreversible: true},
})
