package entity

import "time"

// Roles válidos para Usuario.
const (
	RolAdmin   = "admin"
	RolUsuario = "usuario"
)

// Planes de suscripción.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Usuario representa una cuenta (tenant). Cada usuario posee exactamente un Documento.
type Usuario struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Plan         string // free, pro
	PlanVence    *time.Time
	Rol          string // admin, usuario
	CreatedAt    time.Time
}

// PlanEfectivo devuelve el plan vigente: un plan pro con vencimiento en el pasado
// se reporta como free sin reescribir el registro.
func (u *Usuario) PlanEfectivo(ahora time.Time) string {
	if u.Plan == PlanPro && u.PlanVence != nil && u.PlanVence.Before(ahora) {
		return PlanFree
	}
	if u.Plan == "" {
		return PlanFree
	}
	return u.Plan
}

// EsAdmin indica si el usuario tiene el rol de administrador.
func (u *Usuario) EsAdmin() bool {
	return u.Rol == RolAdmin
}
