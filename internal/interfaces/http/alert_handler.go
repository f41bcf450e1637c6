package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/application/dto"
)

// AlertHandler maneja las peticiones HTTP de alertas.
type AlertHandler struct {
	uc *alerts.UseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.UseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// ListOpen godoc
// @Summary      Alertas abiertas del panel
// @Tags         alerts
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListOpen(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.ListOpen(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.FromAlert(a))
	}
	return c.JSON(out)
}

// ListByMaterial godoc
// @Summary      Historial de alertas de un material
// @Tags         alerts
// @Produce      json
// @Param        id      path   string  true   "ID del material"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/materials/{id}/alerts [get]
func (h *AlertHandler) ListByMaterial(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByMaterial(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.FromAlert(a))
	}
	return c.JSON(out)
}

// Acknowledge godoc
// @Summary      Reconocer una alerta activa
// @Description  El reconocimiento no la resuelve: solo el motor resuelve alertas
//
//	cuando las condiciones vuelven a la normalidad.
//
// @Tags         alerts
// @Produce      json
// @Param        X-Actor  header  string  true  "usuario que reconoce"
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	a, err := h.uc.Acknowledge(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAlert(a))
}
