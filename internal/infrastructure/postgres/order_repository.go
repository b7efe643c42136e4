package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre la tabla pedidos.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// columnas permitidas en ORDER BY; el valor del filtro nunca se interpola directo.
var orderSortColumns = map[string]string{
	repository.OrderSortCreatedAt:       "o.data_criacao",
	repository.OrderSortManufacturer:    "o.fabricante",
	repository.OrderSortAcquisitionDate: "o.data_aquisicao",
	repository.OrderSortTrackingCode:    "o.codigo_rastreamento",
}

// Create inserta el pedido y completa ID y CreatedAt.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO pedidos (fabricante, data_aquisicao, codigo_rastreamento, usuario_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, data_criacao`,
		o.Manufacturer, o.AcquisitionDate, nullIfEmpty(o.TrackingCode), o.CreatedBy,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pedido: %w", err)
	}
	return nil
}

// List devuelve la página pedida y el total exacto (COUNT con el mismo WHERE).
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.ReplaceAll(cond, "$?", fmt.Sprintf("$%d", len(args))))
	}
	if f.Manufacturer != "" {
		add("o.fabricante ILIKE $?", likePattern(f.Manufacturer))
	}
	if f.From != nil {
		add("o.data_aquisicao >= $?", *f.From)
	}
	if f.To != nil {
		add("o.data_aquisicao <= $?", *f.To)
	}
	if f.Search != "" {
		add("(o.codigo_rastreamento ILIKE $? OR o.fabricante ILIKE $?)", likePattern(f.Search))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM pedidos o`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pedidos: %w", err)
	}

	column, ok := orderSortColumns[f.SortField]
	if !ok {
		column = orderSortColumns[repository.OrderSortCreatedAt]
	}
	direction := "DESC"
	if f.Ascending {
		direction = "ASC"
	}
	query := `
		SELECT o.id, o.fabricante, o.data_aquisicao, COALESCE(o.codigo_rastreamento, ''),
		       COALESCE(o.usuario_id::text, ''), COALESCE(p.nome, ''), o.data_criacao
		FROM pedidos o
		LEFT JOIN profiles p ON p.id = o.usuario_id` + whereSQL +
		fmt.Sprintf(" ORDER BY %s %s, o.id %s", column, direction, direction)
	pageArgs := append([]any{}, args...)
	if f.Limit > 0 {
		pageArgs = append(pageArgs, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(pageArgs))
	}
	if f.Offset > 0 {
		pageArgs = append(pageArgs, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(pageArgs))
	}

	rows, err := r.q.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pedidos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.Manufacturer, &o.AcquisitionDate, &o.TrackingCode,
			&o.CreatedBy, &o.CreatorName, &o.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan pedido: %w", err)
		}
		list = append(list, &o)
	}
	return list, total, rows.Err()
}
