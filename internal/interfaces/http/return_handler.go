package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/dto"
	"github.com/grupoandino/almacen-api/internal/application/procurement"
)

// ReturnHandler maneja las peticiones HTTP de devoluciones a proveedor.
type ReturnHandler struct {
	uc *procurement.ReturnUseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *procurement.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una devolución sobre stock admitido
// @Description  Reversa los asientos RECEIPT de la GRN referenciada y retrocede
//
//	el avance de la orden de compra en la misma transacción.
//
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string  true  "usuario que crea"
// @Param        body  body  dto.CreateReturnRequest  true  "devolución"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	items := make([]procurement.ReturnItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, procurement.ReturnItemInput{
			MaterialID: it.MaterialID,
			LotID:      it.LotID,
			Quantity:   it.Quantity,
			Remarks:    it.Remarks,
		})
	}
	vr, err := h.uc.Create(c.Context(), procurement.CreateReturnInput{
		GRNID:  in.GRNID,
		Items:  items,
		Reason: in.Reason,
		Actor:  GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReturn(vr))
}

// Send godoc
// @Summary      Marcar la devolución como enviada
// @Tags         returns
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/send [post]
func (h *ReturnHandler) Send(c *fiber.Ctx) error {
	vr, err := h.uc.Send(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReturn(vr))
}

// Acknowledge godoc
// @Summary      Registrar el acuse del proveedor
// @Tags         returns
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/acknowledge [post]
func (h *ReturnHandler) Acknowledge(c *fiber.Ctx) error {
	vr, err := h.uc.Acknowledge(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReturn(vr))
}

// GetByID godoc
// @Summary      Consultar una devolución
// @Tags         returns
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	vr, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromReturn(vr))
}

// List godoc
// @Summary      Listar devoluciones
// @Tags         returns
// @Produce      json
// @Param        status  query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.ReturnResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReturnResponse, 0, len(list))
	for _, vr := range list {
		out = append(out, dto.FromReturn(vr))
	}
	return c.JSON(out)
}
