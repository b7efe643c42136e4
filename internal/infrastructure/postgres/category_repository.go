package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/equipamentos-api/internal/domain"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre la tabla categorias.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, nome, descricao, created_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	var desc *string
	if err := row.Scan(&c.ID, &c.Name, &desc, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = deref(desc)
	return &c, nil
}

// Create persiste la categoria y completa ID y CreatedAt.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO categorias (nome, descricao) VALUES ($1, $2) RETURNING id, created_at`,
		c.Name, nullIfEmpty(c.Description),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert categoria: %w", err)
	}
	return nil
}

// GetByID obtiene una categoria por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get categoria: %w", err)
	}
	return c, nil
}

// GetByName busca por nombre sin distinguir mayúsculas; con homónimos gana el ID menor.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categorias WHERE lower(nome) = lower($1) ORDER BY id LIMIT 1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get categoria por nome: %w", err)
	}
	return c, nil
}

// List devuelve todas las categorias ordenadas por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categorias ORDER BY nome, id`)
	if err != nil {
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update reescribe nome y descricao.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx, `UPDATE categorias SET nome = $2, descricao = $3 WHERE id = $1`,
		c.ID, c.Name, nullIfEmpty(c.Description))
	if err != nil {
		return fmt.Errorf("update categoria: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la categoria. Si la FK de equipamentos lo impide devuelve ReferentialConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return &domain.ReferentialConflictError{Resource: "categoria", Dependents: "equipamentos"}
		}
		return fmt.Errorf("delete categoria: %w", err)
	}
	return nil
}
