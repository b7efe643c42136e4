package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/application/usecase"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
)

// UserHandler administración de usuarios (solo admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuários
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToUserResponse(p))
	}
	return c.JSON(out)
}

// ChangeRole godoc
// @Summary      Alterar papel do usuário
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "UUID do usuário"
// @Param        body  body  dto.ChangeRoleRequest  true  "Novo papel"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	var req dto.ChangeRoleRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	return h.respond(c, req.Role)
}

// Promote godoc
// @Summary      Promover a admin
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "UUID do usuário"
// @Success      200  {object}  dto.UserResponse
// @Router       /api/users/{id}/promote [post]
func (h *UserHandler) Promote(c *fiber.Ctx) error {
	return h.respond(c, entity.RoleAdmin)
}

// Demote godoc
// @Summary      Rebaixar a usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "UUID do usuário"
// @Success      200  {object}  dto.UserResponse
// @Router       /api/users/{id}/demote [post]
func (h *UserHandler) Demote(c *fiber.Ctx) error {
	return h.respond(c, entity.RoleUser)
}

func (h *UserHandler) respond(c *fiber.Ctx, role string) error {
	p, err := h.uc.ChangeRole(c.Context(), ActorFrom(c), c.Params("id"), role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToUserResponse(p))
}
