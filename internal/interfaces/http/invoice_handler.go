package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/dto"
	"github.com/grupoandino/almacen-api/internal/application/procurement"
)

// InvoiceHandler maneja las peticiones HTTP de facturas de almacén.
type InvoiceHandler struct {
	uc *procurement.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *procurement.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una factura de almacén
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string  true  "usuario que crea"
// @Param        body  body  dto.CreateInvoiceRequest  true  "factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	items := make([]procurement.InvoiceItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, procurement.InvoiceItemInput{
			MaterialID: it.MaterialID,
			LotID:      it.LotID,
			Quantity:   it.Quantity,
		})
	}
	si, err := h.uc.Create(c.Context(), procurement.CreateInvoiceInput{
		GRNID:    in.GRNID,
		IssuedTo: in.IssuedTo,
		Items:    items,
		Actor:    GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromInvoice(si))
}

// Issue godoc
// @Summary      Emitir la factura
// @Description  Genera los asientos ISSUE en una sola transacción; un lote
//
//	bloqueado o stock insuficiente aborta la emisión completa.
//
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/issue [post]
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	si, err := h.uc.Issue(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromInvoice(si))
}

// GetByID godoc
// @Summary      Consultar una factura
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	si, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromInvoice(si))
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Param        status  query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, si := range list {
		out = append(out, dto.FromInvoice(si))
	}
	return c.JSON(out)
}
