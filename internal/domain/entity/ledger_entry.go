package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de asiento en el libro de stock.
const (
	ReasonAdjustment  = "ADJUSTMENT"
	ReasonTransferIn  = "TRANSFER_IN"
	ReasonTransferOut = "TRANSFER_OUT"
	ReasonReceipt     = "RECEIPT"
	ReasonIssue       = "ISSUE"
	ReasonReturn      = "RETURN"
	ReasonWastage     = "WASTAGE"
)

// ValidReason indica si el motivo es uno de los soportados.
func ValidReason(r string) bool {
	switch r {
	case ReasonAdjustment, ReasonTransferIn, ReasonTransferOut,
		ReasonReceipt, ReasonIssue, ReasonReturn, ReasonWastage:
		return true
	}
	return false
}

// LedgerEntry asiento inmutable del libro de stock (append-only).
// Delta lleva signo: positivo entra al almacén, negativo sale.
// CurrentStock del material es la suma de los deltas de sus asientos;
// reproducir el libro desde cero debe dar exactamente el stock materializado.
type LedgerEntry struct {
	ID            string
	MaterialID    string
	LotID         string // opcional: lote afectado
	Delta         decimal.Decimal
	Reason        string // ADJUSTMENT, TRANSFER_IN, TRANSFER_OUT, RECEIPT, ISSUE, RETURN, WASTAGE
	SourceDocRef  string // documento que autorizó el asiento (PO, GRN, factura, devolución)
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string
}
