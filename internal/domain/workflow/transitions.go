package workflow

import (
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// Kind familia de documento del flujo de abastecimiento.
type Kind string

const (
	KindPurchaseOrder Kind = "PURCHASE_ORDER"
	KindGRN           Kind = "GRN"
	KindStoreInvoice  Kind = "STORE_INVOICE"
	KindVendorReturn  Kind = "VENDOR_RETURN"
)

// Tablas de transición por familia de documento. Un estado ausente es terminal.
// FULLY_RECEIVED puede volver a PARTIALLY_RECEIVED cuando una devolución a
// proveedor reversa stock admitido; CLOSED y CANCELLED son terminales.
var transitions = map[Kind]map[string][]string{
	KindPurchaseOrder: {
		entity.POStatusDraft:     {entity.POStatusSubmitted},
		entity.POStatusSubmitted: {entity.POStatusApproved},
		entity.POStatusApproved: {
			entity.POStatusPartiallyReceived,
			entity.POStatusFullyReceived,
			entity.POStatusCancelled,
		},
		entity.POStatusPartiallyReceived: {
			entity.POStatusPartiallyReceived,
			entity.POStatusFullyReceived,
		},
		entity.POStatusFullyReceived: {
			entity.POStatusPartiallyReceived,
			entity.POStatusClosed,
		},
	},
	KindGRN: {
		entity.GRNStatusDraft:     {entity.GRNStatusPendingQC},
		entity.GRNStatusPendingQC: {entity.GRNStatusQCPassed, entity.GRNStatusQCFailed},
	},
	KindStoreInvoice: {
		entity.InvoiceStatusDraft: {entity.InvoiceStatusIssued},
	},
	KindVendorReturn: {
		entity.ReturnStatusDraft: {entity.ReturnStatusSent},
		entity.ReturnStatusSent:  {entity.ReturnStatusAcknowledged},
	},
}

// CanTransition indica si el paso from → to está permitido para la familia.
func CanTransition(kind Kind, from, to string) bool {
	for _, next := range transitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate valida el paso from → to; devuelve ErrInvalidTransition si no aplica.
func Validate(kind Kind, from, to string) error {
	if !CanTransition(kind, from, to) {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Terminal indica si el estado no admite más transiciones.
func Terminal(kind Kind, status string) bool {
	return len(transitions[kind][status]) == 0
}
