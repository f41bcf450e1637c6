package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/dto"
	"github.com/grupoandino/almacen-api/internal/application/procurement"
)

// POHandler maneja las peticiones HTTP de órdenes de compra.
type POHandler struct {
	uc *procurement.POUseCase
}

// NewPOHandler construye el handler.
func NewPOHandler(uc *procurement.POUseCase) *POHandler {
	return &POHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una orden de compra
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string  true  "usuario que crea la orden"
// @Param        body  body  dto.CreatePORequest  true  "orden"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *POHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	items := make([]procurement.POItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, procurement.POItemInput{
			MaterialID: it.MaterialID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
		})
	}
	po, err := h.uc.Create(c.Context(), procurement.CreatePOInput{
		SupplierID: in.SupplierID,
		Items:      items,
		Notes:      in.Notes,
		Actor:      GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPO(po))
}

// Submit godoc
// @Summary      Enviar la orden a aprobación
// @Tags         purchase-orders
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/submit [post]
func (h *POHandler) Submit(c *fiber.Ctx) error {
	po, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPO(po))
}

// Approve godoc
// @Summary      Aprobar la orden
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Actor  header  string  true  "usuario que aprueba"
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *POHandler) Approve(c *fiber.Ctx) error {
	po, err := h.uc.Approve(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPO(po))
}

// Cancel godoc
// @Summary      Cancelar la orden
// @Description  Solo es legal desde APPROVED y antes de registrar cualquier GRN.
// @Tags         purchase-orders
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *POHandler) Cancel(c *fiber.Ctx) error {
	po, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPO(po))
}

// Close godoc
// @Summary      Cerrar una orden completamente recibida
// @Tags         purchase-orders
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/close [post]
func (h *POHandler) Close(c *fiber.Ctx) error {
	po, err := h.uc.Close(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPO(po))
}

// GetByID godoc
// @Summary      Consultar una orden de compra
// @Tags         purchase-orders
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *POHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPO(po))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Produce      json
// @Param        status  query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.POResponse
// @Router       /api/purchase-orders [get]
func (h *POHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.POResponse, 0, len(list))
	for _, po := range list {
		out = append(out, dto.FromPO(po))
	}
	return c.JSON(out)
}
