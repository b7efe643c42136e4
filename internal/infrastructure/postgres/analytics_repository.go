package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// TotalStock suma quantidade de todos los equipamentos.
func (r *AnalyticsRepo) TotalStock(ctx context.Context) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantidade), 0)::bigint FROM equipamentos`).Scan(&total); err != nil {
		return 0, fmt.Errorf("analytics.TotalStock: %w", err)
	}
	return total, nil
}

// MovementTotals suma las unidades históricas por tipo.
func (r *AnalyticsRepo) MovementTotals(ctx context.Context) (int64, int64, error) {
	const query = `
	SELECT
	    COALESCE(SUM(quantidade) FILTER (WHERE tipo = $1), 0)::bigint AS entradas,
	    COALESCE(SUM(quantidade) FILTER (WHERE tipo = $2), 0)::bigint AS saidas
	FROM movimentacoes`
	var in, out int64
	if err := r.q.QueryRow(ctx, query, entity.MovementKindIn, entity.MovementKindOut).Scan(&in, &out); err != nil {
		return 0, 0, fmt.Errorf("analytics.MovementTotals: %w", err)
	}
	return in, out, nil
}

// MonthlyMovementTotals agrupa por mes calendario en la zona loc.
func (r *AnalyticsRepo) MonthlyMovementTotals(ctx context.Context, from time.Time, loc *time.Location) ([]repository.MonthlyMovementTotal, error) {
	const query = `
	SELECT
	    to_char(date_trunc('month', data AT TIME ZONE $2), 'YYYY-MM') AS mes,
	    tipo,
	    SUM(quantidade)::bigint                                       AS total
	FROM movimentacoes
	WHERE data >= $1
	GROUP BY mes, tipo
	ORDER BY mes, tipo`

	rows, err := r.q.Query(ctx, query, from, loc.String())
	if err != nil {
		return nil, fmt.Errorf("analytics.MonthlyMovementTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthlyMovementTotal
	for rows.Next() {
		var (
			month string
			row   repository.MonthlyMovementTotal
		)
		if err := rows.Scan(&month, &row.Kind, &row.Quantity); err != nil {
			return nil, fmt.Errorf("analytics.MonthlyMovementTotals scan: %w", err)
		}
		t, err := time.ParseInLocation("2006-01", month, loc)
		if err != nil {
			return nil, fmt.Errorf("analytics.MonthlyMovementTotals mes %q: %w", month, err)
		}
		row.Month = t
		results = append(results, row)
	}
	return results, rows.Err()
}
