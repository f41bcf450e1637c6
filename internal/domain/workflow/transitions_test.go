package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/workflow"
)

func TestPurchaseOrder_FlujoCompleto(t *testing.T) {
	assert.True(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusDraft, entity.POStatusSubmitted))
	assert.True(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusSubmitted, entity.POStatusApproved))
	assert.True(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusApproved, entity.POStatusPartiallyReceived))
	assert.True(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusPartiallyReceived, entity.POStatusFullyReceived))
	assert.True(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusFullyReceived, entity.POStatusClosed))

	// Devolución puede regresar una orden completa a recepción parcial
	assert.True(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusFullyReceived, entity.POStatusPartiallyReceived))
}

func TestPurchaseOrder_SoloAvanza(t *testing.T) {
	assert.False(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusApproved, entity.POStatusDraft))
	assert.False(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusDraft, entity.POStatusApproved))
	assert.False(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusClosed, entity.POStatusFullyReceived))
	assert.False(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusCancelled, entity.POStatusApproved))
}

func TestPurchaseOrder_CancelacionSoloDesdeApproved(t *testing.T) {
	assert.True(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusApproved, entity.POStatusCancelled))
	assert.False(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusPartiallyReceived, entity.POStatusCancelled))
	assert.False(t, workflow.CanTransition(workflow.KindPurchaseOrder, entity.POStatusFullyReceived, entity.POStatusCancelled))
}

func TestGRN_QCBifurca(t *testing.T) {
	assert.True(t, workflow.CanTransition(workflow.KindGRN, entity.GRNStatusPendingQC, entity.GRNStatusQCPassed))
	assert.True(t, workflow.CanTransition(workflow.KindGRN, entity.GRNStatusPendingQC, entity.GRNStatusQCFailed))
	assert.False(t, workflow.CanTransition(workflow.KindGRN, entity.GRNStatusQCPassed, entity.GRNStatusQCFailed))
	assert.True(t, workflow.Terminal(workflow.KindGRN, entity.GRNStatusQCPassed))
}

func TestStoreInvoice_InmutableTrasEmision(t *testing.T) {
	assert.True(t, workflow.CanTransition(workflow.KindStoreInvoice, entity.InvoiceStatusDraft, entity.InvoiceStatusIssued))
	assert.True(t, workflow.Terminal(workflow.KindStoreInvoice, entity.InvoiceStatusIssued))
}

func TestVendorReturn_Flujo(t *testing.T) {
	assert.True(t, workflow.CanTransition(workflow.KindVendorReturn, entity.ReturnStatusDraft, entity.ReturnStatusSent))
	assert.True(t, workflow.CanTransition(workflow.KindVendorReturn, entity.ReturnStatusSent, entity.ReturnStatusAcknowledged))
	assert.False(t, workflow.CanTransition(workflow.KindVendorReturn, entity.ReturnStatusDraft, entity.ReturnStatusAcknowledged))
}

func TestValidate_DevuelveErrorDeDominio(t *testing.T) {
	err := workflow.Validate(workflow.KindStoreInvoice, entity.InvoiceStatusIssued, entity.InvoiceStatusDraft)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NoError(t, workflow.Validate(workflow.KindGRN, entity.GRNStatusDraft, entity.GRNStatusPendingQC))
}
