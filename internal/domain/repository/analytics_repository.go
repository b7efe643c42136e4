package repository

import (
	"context"
	"time"
)

// MonthlyMovementTotal unidades movidas en un mes por tipo.
type MonthlyMovementTotal struct {
	Month    time.Time // primer día del mes
	Kind     string
	Quantity int64
}

// AnalyticsRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// TotalStock suma equipamentos.quantidade.
	TotalStock(ctx context.Context) (int64, error)
	// MovementTotals devuelve las unidades de entrada y de salida históricas.
	MovementTotals(ctx context.Context) (in, out int64, err error)
	// MonthlyMovementTotals agrupa por mes calendario los movimientos desde from.
	MonthlyMovementTotals(ctx context.Context, from time.Time, loc *time.Location) ([]MonthlyMovementTotal, error)
}
