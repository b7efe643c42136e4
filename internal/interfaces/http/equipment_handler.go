package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/application/inventory"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/repository"
)

// EquipmentHandler maneja las peticiones HTTP de equipamentos.
type EquipmentHandler struct {
	uc *inventory.EquipmentUseCase
}

// NewEquipmentHandler construye el handler. data_aquisicao es una fecha de calendario y se
// interpreta como medianoche UTC, igual que inventory.Today.
func NewEquipmentHandler(uc *inventory.EquipmentUseCase) *EquipmentHandler {
	return &EquipmentHandler{uc: uc}
}

func toEquipmentList(list []*entity.Equipment) []dto.EquipmentResponse {
	out := make([]dto.EquipmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.ToEquipmentResponse(e))
	}
	return out
}

func (h *EquipmentHandler) input(in dto.CreateEquipmentRequest) (inventory.EquipmentInput, error) {
	acquired, err := parseDay("data_aquisicao", in.AcquisitionDate, time.UTC)
	if err != nil {
		return inventory.EquipmentInput{}, err
	}
	out := inventory.EquipmentInput{
		Name:         in.Name,
		SerialNumber: in.SerialNumber,
		CategoryID:   in.CategoryID,
		Quantity:     in.Quantity,
		Description:  in.Description,
	}
	if acquired != nil {
		out.AcquisitionDate = *acquired
	}
	return out, nil
}

// List godoc
// @Summary      Listar equipamentos
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  int     false  "Filtrar por categoria"
// @Param        search       query  string  false  "Busca por nome ou número de série"
// @Success      200  {array}  dto.EquipmentResponse
// @Router       /api/equipment [get]
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	filter := repository.EquipmentFilter{
		CategoryID: int64(c.QueryInt("category_id", 0)),
		Search:     c.Query("search"),
	}
	list, err := h.uc.List(c.Context(), ActorFrom(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toEquipmentList(list))
}

// GetByID godoc
// @Summary      Obtener equipamento
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.EquipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [get]
func (h *EquipmentHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	e, err := h.uc.GetByID(c.Context(), ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToEquipmentResponse(e))
}

// Create godoc
// @Summary      Cadastrar equipamento
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentRequest  true  "Equipamento"
// @Success      201   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment [post]
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEquipmentRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	in, err := h.input(req)
	if err != nil {
		return writeError(c, err)
	}
	e, err := h.uc.Create(c.Context(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToEquipmentResponse(e))
}

// BulkCreate godoc
// @Summary      Cadastrar vários equipamentos (tudo ou nada)
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchEquipmentRequest  true  "Itens"
// @Success      201   {array}   dto.EquipmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment/batch [post]
func (h *EquipmentHandler) BulkCreate(c *fiber.Ctx) error {
	var req dto.BatchEquipmentRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	items := make([]inventory.EquipmentInput, 0, len(req.Items))
	for _, it := range req.Items {
		in, err := h.input(it)
		if err != nil {
			return writeError(c, err)
		}
		items = append(items, in)
	}
	created, err := h.uc.BulkCreate(c.Context(), ActorFrom(c), items)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEquipmentList(created))
}

// Update godoc
// @Summary      Atualizar equipamento
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID"
// @Param        body  body  dto.UpdateEquipmentRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [put]
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req dto.UpdateEquipmentRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	patch := inventory.EquipmentPatch{
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		CategoryID:   req.CategoryID,
		Quantity:     req.Quantity,
		Description:  req.Description,
	}
	if req.AcquisitionDate != nil {
		acquired, err := parseDay("data_aquisicao", *req.AcquisitionDate, time.UTC)
		if err != nil {
			return writeError(c, err)
		}
		patch.AcquisitionDate = acquired
	}
	e, err := h.uc.Update(c.Context(), ActorFrom(c), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToEquipmentResponse(e))
}

// Delete godoc
// @Summary      Excluir equipamento
// @Tags         equipment
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [delete]
func (h *EquipmentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
