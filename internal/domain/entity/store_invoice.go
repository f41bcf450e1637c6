package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura de almacén (salida de materiales a producción).
const (
	InvoiceStatusDraft  = "DRAFT"
	InvoiceStatusIssued = "ISSUED" // inmutable una vez emitida
)

// StoreInvoice factura de almacén: salida de materiales recibidos por una GRN
// hacia un destino interno (producción, mantenimiento). Las cantidades no
// pueden exceder las admitidas por la GRN referenciada.
type StoreInvoice struct {
	ID        string
	Number    string // SI-0001
	GRNID     string
	IssuedTo  string // departamento o centro de costo destino
	Status    string
	Items     []InvoiceItem
	CreatedBy string
	IssuedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceItem renglón emitido. LotID opcional para consumo por lote vencible.
type InvoiceItem struct {
	MaterialID string          `json:"material_id"`
	LotID      string          `json:"lot_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Total valor total de la factura.
func (si *StoreInvoice) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range si.Items {
		total = total.Add(si.Items[i].Quantity.Mul(si.Items[i].UnitPrice))
	}
	return total
}
