package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución a proveedor.
const (
	ReturnStatusDraft        = "DRAFT"
	ReturnStatusSent         = "SENT"
	ReturnStatusAcknowledged = "ACKNOWLEDGED"
)

// VendorReturn devolución de material a proveedor, originada en un rechazo de
// QC (material nunca admitido) o en la reversa de stock ya admitido.
type VendorReturn struct {
	ID         string
	Number     string // VR-0001
	GRNID      string
	SupplierID string
	Status     string
	Items      []ReturnItem
	Reason     string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReturnItem renglón devuelto.
type ReturnItem struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Remarks    string          `json:"remarks,omitempty"`
}
