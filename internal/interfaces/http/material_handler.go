package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/almacen-api/internal/application/catalog"
	"github.com/grupoandino/almacen-api/internal/application/dto"
)

// MaterialHandler maneja las peticiones HTTP del catálogo de materiales.
type MaterialHandler struct {
	uc *catalog.UseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *catalog.UseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string  true  "usuario que ejecuta la operación"
// @Param        body  body  dto.CreateMaterialRequest  true  "material"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	m, err := h.uc.CreateMaterial(c.Context(), catalog.CreateMaterialInput{
		Code:          in.Code,
		Name:          in.Name,
		Category:      in.Category,
		Unit:          in.Unit,
		OpeningStock:  in.OpeningStock,
		MinStock:      in.MinStock,
		SupplierID:    in.SupplierID,
		PurchasePrice: in.PurchasePrice,
		Actor:         GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMaterial(m))
}

// Update godoc
// @Summary      Actualizar un material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del material"
// @Param        body  body  dto.UpdateMaterialRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [put]
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	m, err := h.uc.UpdateMaterial(c.Context(), c.Params("id"), catalog.UpdateMaterialInput{
		Name:          in.Name,
		Category:      in.Category,
		MinStock:      in.MinStock,
		SupplierID:    in.SupplierID,
		PurchasePrice: in.PurchasePrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMaterial(m))
}

// GetByID godoc
// @Summary      Consultar un material
// @Tags         materials
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [get]
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.uc.GetMaterial(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromMaterial(m))
}

// List godoc
// @Summary      Listar materiales
// @Tags         materials
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	materials, err := h.uc.ListMaterials(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		items = append(items, dto.FromMaterial(m))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	})
}

// StockHealth godoc
// @Summary      Salud de stock del catálogo
// @Description  Clasifica cada material en su banda de stock (OK, LOW, CRITICAL, OUT).
// @Tags         materials
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.MaterialHealthResponse
// @Router       /api/materials/health [get]
func (h *MaterialHandler) StockHealth(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	health, err := h.uc.StockHealth(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MaterialHealthResponse, 0, len(health))
	for _, hm := range health {
		out = append(out, dto.MaterialHealthResponse{
			Material: dto.FromMaterial(hm.Material),
			Status:   string(hm.Status),
		})
	}
	return c.JSON(out)
}

// ListLots godoc
// @Summary      Lotes de un material
// @Tags         materials
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {array}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/lots [get]
func (h *MaterialHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.uc.ListLots(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.FromLot(l))
	}
	return c.JSON(out)
}
