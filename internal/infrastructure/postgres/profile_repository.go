package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

var (
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
	_ repository.IdentityDirectory = (*IdentityDirectory)(nil)
)

// ProfileRepo implementación del puerto ProfileRepository sobre la tabla profiles.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileSelect = `SELECT id::text, COALESCE(nome, ''), role, created_at, updated_at FROM profiles`

func scanProfile(row pgx.Row) (*entity.UserProfile, error) {
	var p entity.UserProfile
	if err := row.Scan(&p.ID, &p.Name, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene el perfil de id.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, profileSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// List devuelve todos los perfiles ordenados por nombre.
func (r *ProfileRepo) List(ctx context.Context) ([]*entity.UserProfile, error) {
	rows, err := r.q.Query(ctx, profileSelect+` ORDER BY nome, id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateRole cambia solo role y updated_at.
func (r *ProfileRepo) UpdateRole(ctx context.Context, id, role string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE profiles SET role = $2, updated_at = $3 WHERE id = $1`, id, role, updatedAt)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IdentityDirectory lee los emails de auth.users (requiere una conexión con permisos de service role).
type IdentityDirectory struct {
	q Querier
}

// NewIdentityDirectory construye el adaptador.
func NewIdentityDirectory(q Querier) *IdentityDirectory {
	return &IdentityDirectory{q: q}
}

// ListEmails devuelve email por ID de usuario.
func (d *IdentityDirectory) ListEmails(ctx context.Context) (map[string]string, error) {
	rows, err := d.q.Query(ctx, `SELECT id::text, COALESCE(email, '') FROM auth.users`)
	if err != nil {
		return nil, fmt.Errorf("list auth.users: %w", err)
	}
	defer rows.Close()
	emails := map[string]string{}
	for rows.Next() {
		var id, email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, fmt.Errorf("scan auth.users: %w", err)
		}
		emails[id] = email
	}
	return emails, rows.Err()
}
