package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/equipamentos-api/internal/application/dto"
	"github.com/jhoicas/equipamentos-api/internal/domain"
)

// validate instancia compartida; los nombres de campo salen del tag json o query.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}()

// validationError traduce el primer error de validator a *domain.ValidationError.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return domain.Invalid(fe.Field(), "inválido ("+reason+")")
	}
	return domain.Invalid("", err.Error())
}

// bindJSON parsea el body y lo valida.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

// bindQuery parsea el query string y lo valida.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.Invalid("", "parámetros inválidos")
	}
	if err := validate.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

// paramID lee el path param id como entero positivo.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "debe ser un entero positivo")
	}
	return int64(id), nil
}

// parseDay interpreta YYYY-MM-DD en loc; "" devuelve nil.
func parseDay(field, s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, s, loc)
	if err != nil {
		return nil, domain.Invalid(field, "formato esperado AAAA-MM-DD")
	}
	return &t, nil
}

// endOfDay lleva t al último instante de su día.
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end
}

// writeError traduce la taxonomía de dominio a status + dto.ErrorResponse.
// Los fallos de persistencia se registran y se responden con un mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	var (
		ve  *domain.ValidationError
		dup *domain.DuplicateSerialError
		ins *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: err.Error(), Field: ve.Field})
	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "DUPLICATE_SERIAL",
			Message: "Número de série já cadastrado: " + strings.Join(dup.Serials, ", "),
			Serials: dup.Serials,
		})
	case errors.Is(err, domain.ErrReferentialConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "REFERENTIAL_CONFLICT",
			Message: "Não é possível excluir: existem equipamentos vinculados",
		})
	case errors.As(err, &ins):
		available := ins.Available
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   fmt.Sprintf("Quantidade insuficiente em estoque. Disponível: %d", available),
			Available: &available,
		})
	case errors.Is(err, domain.ErrAlreadyApplied):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "ALREADY_APPLIED",
			Message: "Movimentação já aplicada ao estoque",
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Registro não encontrado"})
	case errors.Is(err, domain.ErrUnrecognizedFormat):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNRECOGNIZED_FORMAT", Message: err.Error()})
	case errors.Is(err, domain.ErrEmptyResult):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "EMPTY_RESULT", Message: "Nenhum dado encontrado para exportação"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "Você não tem permissão para esta operação"})
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Erro interno, tente novamente"})
}

// ErrorHandler es el fiber.ErrorHandler de la app: errores de Fiber conservan su status,
// el resto pasa por writeError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_"))
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
