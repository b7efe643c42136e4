package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
)

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func Me(c *fiber.Ctx) error {
	profile := GetProfile(c)
	if profile == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
	}
	caps := policy.Capabilities(profile.Role)
	out := dto.MeResponse{UserResponse: dto.ToUserResponse(profile), Capabilities: make([]string, len(caps))}
	for i, cap := range caps {
		out.Capabilities[i] = string(cap)
	}
	return c.JSON(out)
}
