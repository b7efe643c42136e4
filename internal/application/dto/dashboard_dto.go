package dto

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalStock int64 `json:"total_stock"` // suma de quantidade de todos los equipamentos
	TotalIn    int64 `json:"total_in"`    // unidades de entrada históricas
	TotalOut   int64 `json:"total_out"`   // unidades de salida históricas

	// Últimos 6 meses, del más antiguo al actual
	Monthly []MonthlyMovementDTO `json:"monthly"`
}

// MonthlyMovementDTO punto del gráfico mensual.
type MonthlyMovementDTO struct {
	Month string `json:"month"` // 2006-01
	Label string `json:"label"` // ej: "mar/2026"
	In    int64  `json:"in"`
	Out   int64  `json:"out"`
}
