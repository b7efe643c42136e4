package entity

import "time"

// Roles válidos para UserProfile (valores de profiles.role).
const (
	RoleAdmin = "admin"
	RoleUser  = "usuario"
)

// ValidRole reporta si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// UserProfile es el perfil de aplicación de una identidad del proveedor de autenticación.
// ID es el mismo UUID que emite el proveedor.
type UserProfile struct {
	ID        string
	Name      string
	Role      string
	Email     string // solo lectura, viene del directorio de identidades
	CreatedAt time.Time
	UpdatedAt *time.Time
}
