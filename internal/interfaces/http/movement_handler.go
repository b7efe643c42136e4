package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/application/inventory"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP de movimentações.
type MovementHandler struct {
	uc  *inventory.MovementUseCase
	loc *time.Location
}

// NewMovementHandler construye el handler. loc define los límites de from/to.
func NewMovementHandler(uc *inventory.MovementUseCase, loc *time.Location) *MovementHandler {
	return &MovementHandler{uc: uc, loc: loc}
}

// Record godoc
// @Summary      Registrar entrada ou saída
// @Description  Registra el movimiento; no modifica la quantidade del equipamento (ver /apply).
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "Movimentação"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var req dto.RecordMovementRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	m, err := h.uc.Record(c.Context(), ActorFrom(c), inventory.MovementInput{
		EquipmentID: req.EquipmentID,
		Kind:        req.Kind,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(m))
}

// Apply godoc
// @Summary      Aplicar movimentação ao estoque
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID da movimentação"
// @Success      200  {object}  dto.EquipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/apply [post]
func (h *MovementHandler) Apply(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	e, err := h.uc.ApplyToStock(c.Context(), ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToEquipmentResponse(e))
}

// List godoc
// @Summary      Histórico de movimentações
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        kind          query  string  false  "entrada | saida"
// @Param        equipment_id  query  int     false  "Equipamento"
// @Param        from          query  string  false  "AAAA-MM-DD"
// @Param        to            query  string  false  "AAAA-MM-DD (inclusive)"
// @Param        search        query  string  false  "Nome do equipamento"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.ListMovementsQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	from, err := parseDay("from", q.From, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDay("to", q.To, h.loc)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.List(c.Context(), ActorFrom(c), repository.MovementFilter{
		From:        from,
		To:          endOfDay(to),
		Kind:        q.Kind,
		EquipmentID: q.EquipmentID,
		Search:      q.Search,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementDetailResponse(m))
	}
	return c.JSON(out)
}
