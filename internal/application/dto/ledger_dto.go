package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// ApplyEntryRequest body para registrar un movimiento en el libro de stock.
// Quantity es la magnitud del movimiento; ADJUSTMENT admite negativos.
type ApplyEntryRequest struct {
	MaterialID   string          `json:"material_id" validate:"required"`
	LotID        string          `json:"lot_id,omitempty"`
	Reason       string          `json:"reason" validate:"required,oneof=ADJUSTMENT TRANSFER_IN TRANSFER_OUT RECEIPT ISSUE RETURN WASTAGE"`
	Quantity     decimal.Decimal `json:"quantity"`
	SourceDocRef string          `json:"source_doc_ref,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// LedgerEntryResponse salida de un asiento.
type LedgerEntryResponse struct {
	ID           string          `json:"id"`
	MaterialID   string          `json:"material_id"`
	LotID        string          `json:"lot_id,omitempty"`
	Delta        decimal.Decimal `json:"delta"`
	Reason       string          `json:"reason"`
	SourceDocRef string          `json:"source_doc_ref,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by"`
}

// FromLedgerEntry mapea la entidad a su respuesta.
func FromLedgerEntry(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           e.ID,
		MaterialID:   e.MaterialID,
		LotID:        e.LotID,
		Delta:        e.Delta,
		Reason:       e.Reason,
		SourceDocRef: e.SourceDocRef,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
}

// ReplayResponse resultado de reproducir el libro de un material.
type ReplayResponse struct {
	MaterialID   string          `json:"material_id"`
	Materialized decimal.Decimal `json:"materialized"`
	Replayed     decimal.Decimal `json:"replayed"`
	Consistent   bool            `json:"consistent"`
}
