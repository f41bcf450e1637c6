package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/dto"
	"github.com/grupoandino/almacen-api/internal/application/ledger"
)

// LedgerHandler maneja las peticiones HTTP del libro de stock.
type LedgerHandler struct {
	apply *ledger.ApplyEntryUseCase
	query *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(apply *ledger.ApplyEntryUseCase, query *ledger.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{apply: apply, query: query}
}

// ApplyEntry godoc
// @Summary      Registrar un movimiento en el libro de stock
// @Description  Agrega un asiento (ajuste, traslado, merma...) y materializa el
//
//	nuevo stock del material en la misma transacción.
//
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string  true  "usuario que ejecuta la operación"
// @Param        body  body  dto.ApplyEntryRequest  true  "movimiento"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [post]
func (h *LedgerHandler) ApplyEntry(c *fiber.Ctx) error {
	var in dto.ApplyEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	m, err := h.apply.Apply(c.Context(), ledger.EntryInput{
		MaterialID:   in.MaterialID,
		LotID:        in.LotID,
		Reason:       in.Reason,
		Quantity:     in.Quantity,
		SourceDocRef: in.SourceDocRef,
		Notes:        in.Notes,
		Actor:        GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMaterial(m))
}

// ListByMaterial godoc
// @Summary      Asientos de un material
// @Tags         ledger
// @Produce      json
// @Param        id      path   string  true   "ID del material"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/materials/{id}/ledger [get]
func (h *LedgerHandler) ListByMaterial(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	entries, err := h.query.ListByMaterial(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.FromLedgerEntry(e))
	}
	return c.JSON(out)
}

// ListByDocument godoc
// @Summary      Asientos generados por un documento
// @Tags         ledger
// @Produce      json
// @Param        ref  path  string  true  "número del documento (GRN-XXXX, SI-XXXX...)"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/ledger/documents/{ref} [get]
func (h *LedgerHandler) ListByDocument(c *fiber.Ctx) error {
	entries, err := h.query.ListByDocument(c.Context(), c.Params("ref"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.FromLedgerEntry(e))
	}
	return c.JSON(out)
}

// Replay godoc
// @Summary      Auditar el stock de un material
// @Description  Reproduce el libro completo del material y compara el resultado
//
//	contra el stock materializado.
//
// @Tags         ledger
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {object}  dto.ReplayResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/replay [get]
func (h *LedgerHandler) Replay(c *fiber.Ctx) error {
	res, err := h.query.Replay(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReplayResponse{
		MaterialID:   res.MaterialID,
		Materialized: res.Materialized,
		Replayed:     res.Replayed,
		Consistent:   res.Consistent,
	})
}
