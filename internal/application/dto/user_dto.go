package dto

import (
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// EmailUnavailable se muestra cuando el directorio de identidades no tiene el email.
const EmailUnavailable = "E-mail não disponível"

// ChangeRoleRequest body para PUT /api/users/:id/role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin usuario"`
}

// UserResponse salida de un perfil.
type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MeResponse salida de GET /api/me.
type MeResponse struct {
	UserResponse
	Capabilities []string `json:"capabilities"`
}

// ToUserResponse mapea el perfil; sin email usa EmailUnavailable.
func ToUserResponse(p *entity.UserProfile) UserResponse {
	email := p.Email
	if email == "" {
		email = EmailUnavailable
	}
	return UserResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
