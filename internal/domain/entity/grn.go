package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una nota de recepción de mercancía (GRN).
const (
	GRNStatusDraft     = "DRAFT"
	GRNStatusPendingQC = "PENDING_QC"
	GRNStatusQCPassed  = "QC_PASSED" // autoriza asientos RECEIPT por renglón
	GRNStatusQCFailed  = "QC_FAILED" // deriva en devolución a proveedor
)

// GRN nota de recepción de mercancía contra una orden de compra.
// El stock NO se admite al registrar la GRN: solo el paso de QC a
// QC_PASSED genera los asientos RECEIPT, con tope en lo autorizado por la PO.
type GRN struct {
	ID         string
	Number     string // GRN-0001
	POID       string
	Status     string
	Items      []GRNItem
	VehicleNo  string
	ReceivedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GRNItem renglón recibido. ExpiryDate presente para materiales con lote vencible.
type GRNItem struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LotCode    string          `json:"lot_code,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// ItemFor devuelve el renglón del material, o nil.
func (g *GRN) ItemFor(materialID string) *GRNItem {
	for i := range g.Items {
		if g.Items[i].MaterialID == materialID {
			return &g.Items[i]
		}
	}
	return nil
}
