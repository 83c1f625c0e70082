package workflow

// Statuts d'un bon de commande fournisseur.
const (
	BcDraft     = "DRAFT"
	BcSent      = "SENT"
	BcConfirmed = "CONFIRMED"
	BcPartial   = "PARTIAL"
	BcReceived  = "RECEIVED"
	BcCancelled = "CANCELLED"
)

// Noms d'action du cycle de vie bon de commande.
const (
	ActionEnvoyer   = "envoyer"
	ActionConfirmer = "confirmer"
	ActionAnnuler   = "annuler"
)

// TableBonCommande table de transitions du bon de commande (11 lignes).
// PARTIAL → PARTIAL est une boucle volontaire : chaque livraison partielle
// successive repasse par cette ligne. L'annulation après envoi est bloquée dès
// qu'une réception partielle existe (prédicat), car du stock est déjà entré.
var TableBonCommande = NewTable("bon_commande", []Rule{
	{From: BcDraft, To: BcSent, Action: ActionEnvoyer, Roles: []Role{RoleAppro}, Irreversible: true},
	{From: BcDraft, To: BcCancelled, Action: ActionAnnuler, RequiresJustification: true},
	{From: BcSent, To: BcConfirmed, Action: ActionConfirmer, Roles: []Role{RoleAppro}},
	{From: BcSent, To: BcPartial, Action: ActionReceptionner, Roles: []Role{RoleAppro}, Irreversible: true},
	{From: BcSent, To: BcReceived, Action: ActionReceptionner, Roles: []Role{RoleAppro}, Irreversible: true},
	{From: BcSent, To: BcCancelled, Action: ActionAnnuler, RequiresJustification: true, BlockingPredicate: PredicatBlocageReceptionPartielle},
	{From: BcConfirmed, To: BcPartial, Action: ActionReceptionner, Roles: []Role{RoleAppro}, Irreversible: true},
	{From: BcConfirmed, To: BcReceived, Action: ActionReceptionner, Roles: []Role{RoleAppro}, Irreversible: true},
	{From: BcConfirmed, To: BcCancelled, Action: ActionAnnuler, RequiresJustification: true, BlockingPredicate: PredicatBlocageReceptionPartielle},
	{From: BcPartial, To: BcPartial, Action: ActionReceptionner, Roles: []Role{RoleAppro}, Irreversible: true},
	{From: BcPartial, To: BcReceived, Action: ActionReceptionner, Roles: []Role{RoleAppro}, Irreversible: true},
})
