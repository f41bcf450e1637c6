package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusDraft             = "DRAFT"
	POStatusSubmitted         = "SUBMITTED"
	POStatusApproved          = "APPROVED"
	POStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	POStatusFullyReceived     = "FULLY_RECEIVED"
	POStatusClosed            = "CLOSED"
	POStatusCancelled         = "CANCELLED" // solo legal antes de cualquier recepción
)

// PurchaseOrder orden de compra a un proveedor.
type PurchaseOrder struct {
	ID         string
	Number     string // consecutivo legible (PO-0001)
	SupplierID string
	Status     string
	Items      []POItem
	Notes      string
	CreatedBy  string
	ApprovedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// POItem renglón de una orden de compra. ReceivedQty acumula lo admitido por
// GRNs con QC aprobado; nunca puede superar Quantity.
type POItem struct {
	MaterialID  string          `json:"material_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
}

// ItemFor devuelve el renglón del material, o nil si la orden no lo incluye.
func (po *PurchaseOrder) ItemFor(materialID string) *POItem {
	for i := range po.Items {
		if po.Items[i].MaterialID == materialID {
			return &po.Items[i]
		}
	}
	return nil
}

// Remaining cantidad pendiente de recibir del renglón.
func (it *POItem) Remaining() decimal.Decimal {
	return it.Quantity.Sub(it.ReceivedQty)
}

// FullyReceived indica si todos los renglones están completos.
func (po *PurchaseOrder) FullyReceived() bool {
	for i := range po.Items {
		if po.Items[i].ReceivedQty.LessThan(po.Items[i].Quantity) {
			return false
		}
	}
	return true
}

// Total valor total de la orden.
func (po *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range po.Items {
		total = total.Add(po.Items[i].Quantity.Mul(po.Items[i].UnitPrice))
	}
	return total
}
