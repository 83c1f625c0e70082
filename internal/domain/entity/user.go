package entity

import "time"

// Rôles attribuables à un utilisateur. SYSTEM n'apparaît pas ici : c'est un
// rôle synthétique du moteur de workflow, jamais porté par un compte.
const (
	RoleUserProduction = "PRODUCTION"
	RoleUserAppro      = "APPRO"
	RoleUserAdmin      = "ADMIN"
)

// User utilisateur de l'application.
type User struct {
	ID           string
	Email        string
	Nom          string
	PasswordHash string
	Role         string
	Actif        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
