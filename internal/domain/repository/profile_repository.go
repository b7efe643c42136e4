package repository

import (
	"context"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para UserProfile (tabla profiles).
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)
	List(ctx context.Context) ([]*entity.UserProfile, error)
	// UpdateRole devuelve domain.ErrNotFound si el perfil no existe.
	UpdateRole(ctx context.Context, id, role string, updatedAt time.Time) error
}

// IdentityDirectory expone el listado administrativo del proveedor de identidad.
type IdentityDirectory interface {
	// ListEmails devuelve email por ID de usuario.
	ListEmails(ctx context.Context) (map[string]string, error)
}
