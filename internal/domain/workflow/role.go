package workflow

// Role rôle de l'acteur qui demande une transition.
type Role string

// Rôles connus du moteur de workflow.
// RoleSystem est synthétique : réservé aux transitions automatiques (cascade de
// clôture), jamais attribuable à un utilisateur final.
const (
	RoleProduction Role = "PRODUCTION"
	RoleAppro      Role = "APPRO"
	RoleAdmin      Role = "ADMIN"
	RoleSystem     Role = "SYSTEM"
)
