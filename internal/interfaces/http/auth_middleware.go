package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/domain/entity"
	"github.com/jhoicas/equipamentos-api/internal/domain/policy"
	"github.com/jhoicas/equipamentos-api/pkg/jwt"
)

// Locals keys cargadas por AuthMiddleware.
const (
	LocalUserID  = "user_id"
	LocalRole    = "role"
	LocalEmail   = "email"
	LocalProfile = "profile"
)

// ProfileSource resuelve el perfil de aplicación del subject del token.
// Lo implementa *usecase.UserUseCase.
type ProfileSource interface {
	Profile(ctx context.Context, id string) (*entity.UserProfile, error)
}

// AuthMiddleware valida el Bearer Token JWT, carga el perfil desde profiles y deja
// UserID, Role, Email y el perfil en c.Locals. El rol nunca se toma del token.
func AuthMiddleware(opts jwt.Options, profiles ProfileSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token vacío"})
		}
		claims, err := jwt.Parse(opts, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido o expirado"})
		}

		profile, err := profiles.Profile(c.Context(), claims.Subject)
		if err != nil {
			return writeError(c, err)
		}
		if profile == nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "Perfil de usuário não encontrado"})
		}
		profile.Email = claims.Email

		c.Locals(LocalUserID, profile.ID)
		c.Locals(LocalRole, profile.Role)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalProfile, profile)
		return c.Next()
	}
}

// RequireCapability corta con 403 si el rol del perfil no tiene cap.
// Debe usarse DESPUÉS de AuthMiddleware. Los casos de uso vuelven a validar.
func RequireCapability(cap policy.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
		}
		if !policy.HasCapability(GetRole(c), cap) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "Você não tem permissão para esta operação",
			})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol de aplicación del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetProfile devuelve el perfil cargado por AuthMiddleware.
func GetProfile(c *fiber.Ctx) *entity.UserProfile {
	p, _ := c.Locals(LocalProfile).(*entity.UserProfile)
	return p
}

// ActorFrom arma el policy.Actor que reciben los casos de uso.
func ActorFrom(c *fiber.Ctx) policy.Actor {
	return policy.Actor{UserID: GetUserID(c), Role: GetRole(c)}
}
