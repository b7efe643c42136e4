package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// UserUseCase administración de perfiles y roles.
type UserUseCase struct {
	profiles  repository.ProfileRepository
	directory repository.IdentityDirectory
	now       func() time.Time
}

// NewUserUseCase construye el caso de uso. directory puede ser nil (sin emails).
func NewUserUseCase(profiles repository.ProfileRepository, directory repository.IdentityDirectory) *UserUseCase {
	return &UserUseCase{profiles: profiles, directory: directory, now: time.Now}
}

// Profile obtiene el perfil de id sin chequeo de capacidades (lo usa el middleware de auth).
// Devuelve (nil, nil) si no existe.
func (uc *UserUseCase) Profile(ctx context.Context, id string) (*entity.UserProfile, error) {
	p, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Gateway("obtener perfil", err)
	}
	return p, nil
}

// List devuelve los perfiles con el email del directorio de identidades.
// Si el directorio falla se listan igual, sin emails.
func (uc *UserUseCase) List(ctx context.Context, actor policy.Actor) ([]*entity.UserProfile, error) {
	if err := policy.Authorize(actor, policy.CapManageUsers); err != nil {
		return nil, err
	}
	list, err := uc.profiles.List(ctx)
	if err != nil {
		return nil, domain.Gateway("listar perfiles", err)
	}
	if uc.directory == nil {
		return list, nil
	}
	emails, err := uc.directory.ListEmails(ctx)
	if err != nil {
		return list, nil
	}
	for _, p := range list {
		p.Email = emails[p.ID]
	}
	return list, nil
}

// Promote asigna el rol admin.
func (uc *UserUseCase) Promote(ctx context.Context, actor policy.Actor, targetID string) (*entity.UserProfile, error) {
	return uc.ChangeRole(ctx, actor, targetID, entity.RoleAdmin)
}

// Demote asigna el rol usuario.
func (uc *UserUseCase) Demote(ctx context.Context, actor policy.Actor, targetID string) (*entity.UserProfile, error) {
	return uc.ChangeRole(ctx, actor, targetID, entity.RoleUser)
}

// ChangeRole actualiza solo el rol del perfil targetID.
func (uc *UserUseCase) ChangeRole(ctx context.Context, actor policy.Actor, targetID, role string) (*entity.UserProfile, error) {
	if err := policy.Authorize(actor, policy.CapManageUsers); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(targetID); err != nil {
		return nil, domain.Invalid("id", "no es un UUID")
	}
	if !entity.ValidRole(role) {
		return nil, domain.Invalid("role", "debe ser admin o usuario")
	}
	if err := uc.profiles.UpdateRole(ctx, targetID, role, uc.now()); err != nil {
		return nil, domain.Gateway("cambiar rol", err)
	}
	p, err := uc.profiles.GetByID(ctx, targetID)
	if err != nil {
		return nil, domain.Gateway("obtener perfil", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
