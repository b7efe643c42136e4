package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre la tabla movimentacoes.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento y completa ID y CreatedAt.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO movimentacoes (equipamento_id, tipo, quantidade, data, usuario_id, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		m.EquipmentID, m.Kind, m.Quantity, m.Date, m.UserID, nullIfEmpty(m.Notes),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert movimentacao: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	var m entity.Movement
	var notes *string
	err := r.q.QueryRow(ctx, `
		SELECT id, equipamento_id, tipo, quantidade, data, usuario_id::text, observacoes, aplicado_em, created_at
		FROM movimentacoes WHERE id = $1`, id,
	).Scan(&m.ID, &m.EquipmentID, &m.Kind, &m.Quantity, &m.Date, &m.UserID, &notes, &m.AppliedAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimentacao: %w", err)
	}
	m.Notes = deref(notes)
	return &m, nil
}

// MarkApplied fija aplicado_em con una actualización condicional. Dentro de una transacción el
// lock de la fila serializa aplicaciones concurrentes del mismo movimiento.
func (r *MovementRepo) MarkApplied(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE movimentacoes SET aplicado_em = $2
		WHERE id = $1 AND aplicado_em IS NULL`, id, at)
	if err != nil {
		return false, fmt.Errorf("marcar movimentacao aplicada: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List devuelve movimientos con nombre/serie del equipamento y nombre del usuario,
// ordenados por data descendente.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementDetail, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.From != nil {
		add("m.data >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("m.data <= $%d", *filter.To)
	}
	if filter.Kind != "" {
		add("m.tipo = $%d", filter.Kind)
	}
	if filter.EquipmentID != 0 {
		add("m.equipamento_id = $%d", filter.EquipmentID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		add("e.nome ILIKE $%d", likePattern(s))
	}

	query := `
		SELECT m.id, m.equipamento_id, m.tipo, m.quantidade, m.data, m.usuario_id::text, m.observacoes,
		       m.aplicado_em, m.created_at, COALESCE(e.nome, ''), COALESCE(e.num_serie, ''), COALESCE(p.nome, '')
		FROM movimentacoes m
		LEFT JOIN equipamentos e ON e.id = m.equipamento_id
		LEFT JOIN profiles p ON p.id = m.usuario_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.data DESC, m.id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimentacoes: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementDetail
	for rows.Next() {
		var d entity.MovementDetail
		var notes *string
		if err := rows.Scan(&d.ID, &d.EquipmentID, &d.Kind, &d.Quantity, &d.Date, &d.UserID, &notes,
			&d.AppliedAt, &d.CreatedAt, &d.EquipmentName, &d.SerialNumber, &d.UserName); err != nil {
			return nil, fmt.Errorf("scan movimentacao: %w", err)
		}
		d.Notes = deref(notes)
		list = append(list, &d)
	}
	return list, rows.Err()
}
