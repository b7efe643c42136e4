package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/equipamentos-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve stock total, entradas/salidas históricas y los últimos seis meses.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (total_stock, total_in, total_out, monthly[6]).
// Los meses se calculan en el servidor con la zona APP_TIMEZONE.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
