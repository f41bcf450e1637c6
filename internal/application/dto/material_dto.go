package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// CreateMaterialRequest entrada para dar de alta un material.
type CreateMaterialRequest struct {
	Code          string          `json:"code" validate:"required,min=1,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit" validate:"required,oneof=KG NOS METER LITER PCS"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	MinStock      decimal.Decimal `json:"min_stock"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// UpdateMaterialRequest campos mutables del material. Omitir = sin cambio.
type UpdateMaterialRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category      *string          `json:"category"`
	MinStock      *decimal.Decimal `json:"min_stock"`
	SupplierID    *string          `json:"supplier_id"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStock      decimal.Decimal `json:"min_stock"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	LastUpdated   time.Time       `json:"last_updated"`
	CreatedAt     time.Time       `json:"created_at"`
}

// FromMaterial mapea la entidad a su respuesta.
func FromMaterial(m *entity.Material) MaterialResponse {
	return MaterialResponse{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Category:      m.Category,
		Unit:          m.Unit,
		OpeningStock:  m.OpeningStock,
		CurrentStock:  m.CurrentStock,
		MinStock:      m.MinStock,
		SupplierID:    m.SupplierID,
		PurchasePrice: m.PurchasePrice,
		LastUpdated:   m.LastUpdated,
		CreatedAt:     m.CreatedAt,
	}
}

// MaterialHealthResponse material con su banda de stock vigente.
type MaterialHealthResponse struct {
	Material MaterialResponse `json:"material"`
	Status   string           `json:"status"` // OK, LOW, CRITICAL, OUT
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	Code        string          `json:"code"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiryDate  time.Time       `json:"expiry_date"`
	Restriction string          `json:"restriction"`
	Consumed    bool            `json:"consumed"`
	SourceRef   string          `json:"source_ref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromLot mapea la entidad a su respuesta.
func FromLot(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:          l.ID,
		MaterialID:  l.MaterialID,
		Code:        l.Code,
		Quantity:    l.Quantity,
		ExpiryDate:  l.ExpiryDate,
		Restriction: l.Restriction,
		Consumed:    l.Consumed,
		SourceRef:   l.SourceRef,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
