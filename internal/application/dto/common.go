package dto

// PageRequest pagination des listages.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage applique les valeurs par défaut si Limit/Offset sont nuls.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse corps d'erreur HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Champ   string `json:"champ,omitempty"`
	// Contexte du guard de workflow, quand l'erreur vient de lui.
	StatutsAtteignables []string `json:"statuts_atteignables,omitempty"`
	RolesRequis         []string `json:"roles_requis,omitempty"`
}
