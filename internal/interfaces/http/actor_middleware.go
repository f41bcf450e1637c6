package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/dto"
)

// Local key para el actor en Fiber.
const LocalActor = "actor"

// ActorMiddleware exige el header X-Actor (usuario de planta que ejecuta la
// operación) y lo deja en c.Locals para los handlers de escritura. Todo
// movimiento del libro y todo documento queda firmado por ese actor.
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := strings.TrimSpace(c.Get("X-Actor"))
		if actor == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ACTOR", Message: "header X-Actor requerido"})
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después del middleware).
func GetActor(c *fiber.Ctx) string {
	v := c.Locals(LocalActor)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
