package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/equipamentos-api/pkg/logger"
)

// HeaderRequestID encabezado con el identificador de la petición.
const HeaderRequestID = "X-Request-ID"

// RequestLogger registra cada petición con zerolog (método, ruta, status, latencia, usuario).
// Propaga X-Request-ID o genera uno nuevo.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		err := c.Next()
		if err != nil {
			// el ErrorHandler escribe la respuesta; así el status registrado es el final
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return nil
	}
}
