package dto

import "time"

// RegistroRequest entrada para registro: username, password y plan opcional.
type RegistroRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Plan     string `json:"plan"` // free (default) | pro
}

// RegistroResponse salida del registro (sin password).
type RegistroResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UsuarioResponse identidad pública de un usuario.
type UsuarioResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Plan      string     `json:"plan"`
	PlanVence *time.Time `json:"plan_expires,omitempty"`
	Rol       string     `json:"rol,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// LoginResponse salida con token JWT y la identidad resuelta.
type LoginResponse struct {
	Token string          `json:"token"`
	User  UsuarioResponse `json:"user"`
}

// UpgradeResponse salida de la mejora de plan.
type UpgradeResponse struct {
	Success bool      `json:"success"`
	Plan    string    `json:"plan"`
	Expires time.Time `json:"expires"`
}
