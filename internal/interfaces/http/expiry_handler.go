package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/catalog"
)

// ExpiryHandler dispara el barrido de vencimientos a demanda.
type ExpiryHandler struct {
	uc *catalog.UseCase
}

// NewExpiryHandler construye el handler.
func NewExpiryHandler(uc *catalog.UseCase) *ExpiryHandler {
	return &ExpiryHandler{uc: uc}
}

// Sweep godoc
// @Summary      Barrido de vencimientos
// @Description  Recorre los lotes abiertos, endurece las restricciones según el
//
//	SOP (30/7/0 días) y sincroniza las alertas de vencimiento.
//
// @Tags         expiry
// @Produce      json
// @Success      200  {object}  catalog.SweepResult
// @Router       /api/expiry/sweep [post]
func (h *ExpiryHandler) Sweep(c *fiber.Ctx) error {
	res, err := h.uc.SweepExpiry(c.Context(), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
