package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de restricción de uso por vencimiento (SOP 30/7/0 días).
const (
	RestrictionNormal           = "NORMAL"
	RestrictionNotifyProduction = "NOTIFY_PRODUCTION" // ≤30 días para vencer
	RestrictionPriorityUse      = "PRIORITY_USE"      // ≤7 días para vencer
	RestrictionBlocked          = "BLOCKED"           // vencido, no se puede consumir
)

// Lot representa un lote trazable de un material con una fecha de vencimiento común.
// Restriction solo se endurece con el tiempo; BLOCKED es terminal hasta que el
// lote se consuma o se retire.
type Lot struct {
	ID          string
	MaterialID  string
	Code        string // código de lote del proveedor o interno
	Quantity    decimal.Decimal
	ExpiryDate  time.Time
	Restriction string
	Consumed    bool // lote agotado o retirado del almacén
	SourceRef   string // documento de origen (GRN)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
