package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/dto"
	"github.com/grupoandino/almacen-api/internal/application/procurement"
)

// GRNHandler maneja las peticiones HTTP de notas de recepción.
type GRNHandler struct {
	uc *procurement.GRNUseCase
}

// NewGRNHandler construye el handler.
func NewGRNHandler(uc *procurement.GRNUseCase) *GRNHandler {
	return &GRNHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar una nota de recepción
// @Description  La recepción física no admite stock: solo la aprobación de QC
//
//	genera los asientos RECEIPT.
//
// @Tags         grns
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string  true  "usuario que recibe"
// @Param        body  body  dto.CreateGRNRequest  true  "recepción"
// @Success      201   {object}  dto.GRNResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/grns [post]
func (h *GRNHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGRNRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	items := make([]procurement.GRNItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, procurement.GRNItemInput{
			MaterialID: it.MaterialID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			LotCode:    it.LotCode,
			ExpiryDate: it.ExpiryDate,
		})
	}
	grn, err := h.uc.Create(c.Context(), procurement.CreateGRNInput{
		POID:       in.POID,
		Items:      items,
		VehicleNo:  in.VehicleNo,
		ReceivedBy: GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromGRN(grn))
}

// Submit godoc
// @Summary      Enviar la GRN a inspección de calidad
// @Tags         grns
// @Produce      json
// @Param        id  path  string  true  "ID de la GRN"
// @Success      200  {object}  dto.GRNResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/grns/{id}/submit [post]
func (h *GRNHandler) Submit(c *fiber.Ctx) error {
	grn, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromGRN(grn))
}

// RecordInspection godoc
// @Summary      Registrar el resultado de QC
// @Description  PASSED admite el stock (asientos, lotes, avance de la orden) en
//
//	una sola transacción; FAILED crea la devolución a proveedor.
//
// @Tags         grns
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string  true  "inspector"
// @Param        id    path  string  true  "ID de la GRN"
// @Param        body  body  dto.RecordInspectionRequest  true  "acta de inspección"
// @Success      200   {object}  dto.GRNResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/grns/{id}/inspection [post]
func (h *GRNHandler) RecordInspection(c *fiber.Ctx) error {
	var in dto.RecordInspectionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	lines := make([]procurement.InspectionLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, procurement.InspectionLineInput{
			MaterialID:  l.MaterialID,
			RejectedQty: l.RejectedQty,
			Remarks:     l.Remarks,
		})
	}
	grn, err := h.uc.RecordInspection(c.Context(), procurement.InspectionInput{
		GRNID:     c.Params("id"),
		Result:    in.Result,
		Inspector: GetActor(c),
		Notes:     in.Notes,
		Lines:     lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromGRN(grn))
}

// GetByID godoc
// @Summary      Consultar una GRN
// @Tags         grns
// @Produce      json
// @Param        id  path  string  true  "ID de la GRN"
// @Success      200  {object}  dto.GRNResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/grns/{id} [get]
func (h *GRNHandler) GetByID(c *fiber.Ctx) error {
	grn, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromGRN(grn))
}

// List godoc
// @Summary      Listar GRNs
// @Tags         grns
// @Produce      json
// @Param        status  query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.GRNResponse
// @Router       /api/grns [get]
func (h *GRNHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.GRNResponse, 0, len(list))
	for _, g := range list {
		out = append(out, dto.FromGRN(g))
	}
	return c.JSON(out)
}
