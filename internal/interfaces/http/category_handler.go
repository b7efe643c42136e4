package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/application/inventory"
)

// CategoryHandler maneja las peticiones HTTP de categorias.
type CategoryHandler struct {
	uc *inventory.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *inventory.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// List godoc
// @Summary      Listar categorias
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, cat := range list {
		out = append(out, dto.ToCategoryResponse(cat))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoria
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	cat, err := h.uc.GetByID(c.Context(), ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToCategoryResponse(cat))
}

// Create godoc
// @Summary      Crear categoria
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Categoria"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	cat, err := h.uc.Create(c.Context(), ActorFrom(c), inventory.CategoryInput{Name: in.Name, Description: in.Description})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCategoryResponse(cat))
}

// Update godoc
// @Summary      Actualizar categoria
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateCategoryRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	cat, err := h.uc.Update(c.Context(), ActorFrom(c), id, inventory.CategoryPatch{Name: in.Name, Description: in.Description})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToCategoryResponse(cat))
}

// Delete godoc
// @Summary      Eliminar categoria (solo sin equipamentos vinculados)
// @Tags         categories
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
