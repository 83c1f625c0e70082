package dto

// RegisterRequest body pour POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Nom      string `json:"nom"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest body pour POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token JWT et profil minimal.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse profil utilisateur sans champs sensibles.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Nom   string `json:"nom"`
	Role  string `json:"role"`
}
