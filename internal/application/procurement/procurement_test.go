package procurement_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/application/ledger"
	"github.com/grupoandino/almacen-api/internal/application/procurement"
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
	"github.com/grupoandino/almacen-api/internal/infrastructure/memory"
	"github.com/grupoandino/almacen-api/pkg/logger"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

type harness struct {
	store     *memory.Store
	poUC      *procurement.POUseCase
	grnUC     *procurement.GRNUseCase
	invoiceUC *procurement.InvoiceUseCase
	returnUC  *procurement.ReturnUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	feed := events.NewFeed(8)
	eval := alerts.NewEvaluator()
	log := logger.NewNop()
	applyUC := ledger.NewApplyEntryUseCase(tx, store.Repos().Ledger, eval, feed, log, 3)
	return &harness{
		store:     store,
		poUC:      procurement.NewPOUseCase(tx, store.Repos().PurchaseOrders, store.Repos().Suppliers, store.Repos().Materials, feed),
		grnUC:     procurement.NewGRNUseCase(tx, store.Repos().GRNs, applyUC, eval, feed, log),
		invoiceUC: procurement.NewInvoiceUseCase(tx, store.Repos().Invoices, applyUC, feed),
		returnUC:  procurement.NewReturnUseCase(tx, store.Repos().Returns, applyUC, feed),
	}
}

func (h *harness) seedSupplier(t *testing.T) *entity.Supplier {
	t.Helper()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Code:      "PROV-" + uuid.New().String()[:8],
		Name:      "Molinos del Sur",
		CreatedAt: time.Now(),
	}
	require.NoError(t, h.store.Repos().Suppliers.Create(context.Background(), s))
	return s
}

func (h *harness) seedMaterial(t *testing.T, min float64) *entity.Material {
	t.Helper()
	now := time.Now()
	m := &entity.Material{
		ID:           uuid.New().String(),
		Code:         "MAT-" + uuid.New().String()[:8],
		Name:         "harina de trigo",
		Unit:         entity.UnitKG,
		CurrentStock: decimal.Zero,
		MinStock:     d(min),
		LastUpdated:  now,
		CreatedAt:    now,
	}
	require.NoError(t, h.store.Repos().Materials.Create(context.Background(), m))
	return m
}

// approvedPO crea y aprueba una orden de un solo renglón.
func (h *harness) approvedPO(t *testing.T, m *entity.Material, qty float64) *entity.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	s := h.seedSupplier(t)
	po, err := h.poUC.Create(ctx, procurement.CreatePOInput{
		SupplierID: s.ID,
		Items:      []procurement.POItemInput{{MaterialID: m.ID, Quantity: d(qty), UnitPrice: d(10)}},
		Actor:      "ana",
	})
	require.NoError(t, err)
	_, err = h.poUC.Submit(ctx, po.ID)
	require.NoError(t, err)
	po, err = h.poUC.Approve(ctx, po.ID, "jefe")
	require.NoError(t, err)
	return po
}

// admittedGRN lleva una GRN del material hasta QC_PASSED.
func (h *harness) admittedGRN(t *testing.T, po *entity.PurchaseOrder, m *entity.Material, qty float64, expiry *time.Time) *entity.GRN {
	t.Helper()
	ctx := context.Background()
	grn, err := h.grnUC.Create(ctx, procurement.CreateGRNInput{
		POID:       po.ID,
		Items:      []procurement.GRNItemInput{{MaterialID: m.ID, Quantity: d(qty), UnitPrice: d(10), LotCode: "L-001", ExpiryDate: expiry}},
		ReceivedBy: "portería",
	})
	require.NoError(t, err)
	_, err = h.grnUC.Submit(ctx, grn.ID)
	require.NoError(t, err)
	grn, err = h.grnUC.RecordInspection(ctx, procurement.InspectionInput{
		GRNID:     grn.ID,
		Result:    entity.InspectionPassed,
		Inspector: "calidad",
	})
	require.NoError(t, err)
	return grn
}

func TestFlujoCompleto_CompraHastaSalida(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	expiry := time.Now().Add(90 * 24 * time.Hour)

	po := h.approvedPO(t, m, 100)
	assert.Equal(t, entity.POStatusApproved, po.Status)
	assert.Equal(t, "jefe", po.ApprovedBy)

	grn := h.admittedGRN(t, po, m, 100, &expiry)
	assert.Equal(t, entity.GRNStatusQCPassed, grn.Status)

	// La admisión genera el asiento RECEIPT, el lote y el avance de la PO
	gotM, err := h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.Equal(d(100)))

	entries, err := h.store.Repos().Ledger.ListByDocument(ctx, grn.Number)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonReceipt, entries[0].Reason)

	lots, err := h.store.Repos().Lots.ListByMaterial(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, entity.RestrictionNormal, lots[0].Restriction)
	assert.Equal(t, grn.Number, lots[0].SourceRef)

	gotPO, err := h.poUC.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusFullyReceived, gotPO.Status)

	// Salida a producción vía factura de almacén
	si, err := h.invoiceUC.Create(ctx, procurement.CreateInvoiceInput{
		GRNID:    grn.ID,
		IssuedTo: "producción",
		Items:    []procurement.InvoiceItemInput{{MaterialID: m.ID, LotID: lots[0].ID, Quantity: d(60)}},
		Actor:    "ana",
	})
	require.NoError(t, err)
	si, err = h.invoiceUC.Issue(ctx, si.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusIssued, si.Status)
	require.NotNil(t, si.IssuedAt)

	gotM, err = h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.Equal(d(40)))

	// Emitida es inmutable: reemitir es transición inválida
	_, err = h.invoiceUC.Issue(ctx, si.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Cierre de la orden completamente recibida
	gotPO, err = h.poUC.Close(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusClosed, gotPO.Status)
}

func TestGRN_SobreRecepcionRechazada(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)

	_, err := h.grnUC.Create(ctx, procurement.CreateGRNInput{
		POID:       po.ID,
		Items:      []procurement.GRNItemInput{{MaterialID: m.ID, Quantity: d(150), UnitPrice: d(10)}},
		ReceivedBy: "portería",
	})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)
}

func TestGRN_SobreRecepcionAcumulada(t *testing.T) {
	// Dos GRN que individualmente caben pero juntas exceden la orden: el
	// pendiente ya descontó lo admitido y la segunda se rechaza de entrada.
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)

	h.admittedGRN(t, po, m, 70, nil)

	grn2, err := h.grnUC.Create(ctx, procurement.CreateGRNInput{
		POID:       po.ID,
		Items:      []procurement.GRNItemInput{{MaterialID: m.ID, Quantity: d(50), UnitPrice: d(10)}},
		ReceivedBy: "portería",
	})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)
	assert.Nil(t, grn2)

	gotM, err := h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.Equal(d(70)))
}

func TestGRN_RechazoQCNoAdmiteStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)

	grn, err := h.grnUC.Create(ctx, procurement.CreateGRNInput{
		POID:       po.ID,
		Items:      []procurement.GRNItemInput{{MaterialID: m.ID, Quantity: d(100), UnitPrice: d(10)}},
		ReceivedBy: "portería",
	})
	require.NoError(t, err)
	_, err = h.grnUC.Submit(ctx, grn.ID)
	require.NoError(t, err)

	grn, err = h.grnUC.RecordInspection(ctx, procurement.InspectionInput{
		GRNID:     grn.ID,
		Result:    entity.InspectionFailed,
		Inspector: "calidad",
		Lines: []procurement.InspectionLineInput{
			{MaterialID: m.ID, RejectedQty: d(100), Remarks: "humedad fuera de rango"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.GRNStatusQCFailed, grn.Status)

	// El material rechazado nunca entró: ni asientos ni avance de la orden
	gotM, err := h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.IsZero())

	gotPO, err := h.poUC.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusApproved, gotPO.Status)

	// El rechazo deriva en una devolución en borrador por lo rechazado
	returns, err := h.returnUC.List(ctx, entity.ReturnStatusDraft, 10, 0)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, grn.ID, returns[0].GRNID)
	require.Len(t, returns[0].Items, 1)
	assert.True(t, returns[0].Items[0].Quantity.Equal(d(100)))
	assert.Equal(t, "humedad fuera de rango", returns[0].Items[0].Remarks)
}

func TestPO_CancelacionVetadaConRecepciones(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)

	// Con una GRN registrada (aunque siga en borrador) la cancelación es ilegal
	_, err := h.grnUC.Create(ctx, procurement.CreateGRNInput{
		POID:       po.ID,
		Items:      []procurement.GRNItemInput{{MaterialID: m.ID, Quantity: d(10), UnitPrice: d(10)}},
		ReceivedBy: "portería",
	})
	require.NoError(t, err)

	_, err = h.poUC.Cancel(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPO_CancelacionSinRecepciones(t *testing.T) {
	h := newHarness(t)
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)

	got, err := h.poUC.Cancel(context.Background(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, got.Status)
}

func TestPO_TransicionesInvalidas(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	s := h.seedSupplier(t)

	po, err := h.poUC.Create(ctx, procurement.CreatePOInput{
		SupplierID: s.ID,
		Items:      []procurement.POItemInput{{MaterialID: m.ID, Quantity: d(10), UnitPrice: d(1)}},
		Actor:      "ana",
	})
	require.NoError(t, err)

	// Saltos ilegales desde DRAFT
	_, err = h.poUC.Approve(ctx, po.ID, "jefe")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = h.poUC.Close(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = h.poUC.Cancel(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestFactura_TopeAcumuladoContraGRN(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)
	grn := h.admittedGRN(t, po, m, 100, nil)

	first, err := h.invoiceUC.Create(ctx, procurement.CreateInvoiceInput{
		GRNID:    grn.ID,
		IssuedTo: "producción",
		Items:    []procurement.InvoiceItemInput{{MaterialID: m.ID, Quantity: d(80)}},
		Actor:    "ana",
	})
	require.NoError(t, err)
	_, err = h.invoiceUC.Issue(ctx, first.ID)
	require.NoError(t, err)

	// El acumulado emitido (80) más lo nuevo (30) excede lo admitido (100)
	_, err = h.invoiceUC.Create(ctx, procurement.CreateInvoiceInput{
		GRNID:    grn.ID,
		IssuedTo: "producción",
		Items:    []procurement.InvoiceItemInput{{MaterialID: m.ID, Quantity: d(30)}},
		Actor:    "ana",
	})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	// Dentro del tope restante sí pasa
	second, err := h.invoiceUC.Create(ctx, procurement.CreateInvoiceInput{
		GRNID:    grn.ID,
		IssuedTo: "producción",
		Items:    []procurement.InvoiceItemInput{{MaterialID: m.ID, Quantity: d(20)}},
		Actor:    "ana",
	})
	require.NoError(t, err)
	_, err = h.invoiceUC.Issue(ctx, second.ID)
	require.NoError(t, err)
}

func TestFactura_RevalidaTopeAlEmitir(t *testing.T) {
	// Dos borradores que individualmente caben: emitir el primero consume el
	// tope y la emisión del segundo debe fallar en la revalidación.
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)
	grn := h.admittedGRN(t, po, m, 100, nil)

	a, err := h.invoiceUC.Create(ctx, procurement.CreateInvoiceInput{
		GRNID: grn.ID, IssuedTo: "producción", Actor: "ana",
		Items: []procurement.InvoiceItemInput{{MaterialID: m.ID, Quantity: d(70)}},
	})
	require.NoError(t, err)
	b, err := h.invoiceUC.Create(ctx, procurement.CreateInvoiceInput{
		GRNID: grn.ID, IssuedTo: "mantenimiento", Actor: "ana",
		Items: []procurement.InvoiceItemInput{{MaterialID: m.ID, Quantity: d(70)}},
	})
	require.NoError(t, err)

	_, err = h.invoiceUC.Issue(ctx, a.ID)
	require.NoError(t, err)
	_, err = h.invoiceUC.Issue(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	gotM, err := h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.Equal(d(30)), "la emisión fallida no debe tocar stock")
}

func TestFactura_SoloContraQCAprobado(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)

	grn, err := h.grnUC.Create(ctx, procurement.CreateGRNInput{
		POID:       po.ID,
		Items:      []procurement.GRNItemInput{{MaterialID: m.ID, Quantity: d(50), UnitPrice: d(10)}},
		ReceivedBy: "portería",
	})
	require.NoError(t, err)

	_, err = h.invoiceUC.Create(ctx, procurement.CreateInvoiceInput{
		GRNID: grn.ID, IssuedTo: "producción", Actor: "ana",
		Items: []procurement.InvoiceItemInput{{MaterialID: m.ID, Quantity: d(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDevolucion_ReversaAvanceDeOrden(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)
	grn := h.admittedGRN(t, po, m, 100, nil)

	vr, err := h.returnUC.Create(ctx, procurement.CreateReturnInput{
		GRNID:  grn.ID,
		Items:  []procurement.ReturnItemInput{{MaterialID: m.ID, Quantity: d(30), Remarks: "sacos rotos"}},
		Reason: "daño en transporte",
		Actor:  "ana",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusDraft, vr.Status)

	// La reversa descuenta stock y regresa la orden a recepción parcial
	gotM, err := h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.Equal(d(70)))

	gotPO, err := h.poUC.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartiallyReceived, gotPO.Status)
	assert.True(t, gotPO.Items[0].ReceivedQty.Equal(d(70)))

	entries, err := h.store.Repos().Ledger.ListByDocument(ctx, vr.Number)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonReturn, entries[0].Reason)
	assert.True(t, entries[0].Delta.Equal(d(-30)))

	// Ciclo del documento: DRAFT → SENT → ACKNOWLEDGED
	vr, err = h.returnUC.Send(ctx, vr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusSent, vr.Status)
	vr, err = h.returnUC.Acknowledge(ctx, vr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusAcknowledged, vr.Status)
}

func TestDevolucion_NoExcedeLoAdmitidoPorLaGRN(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)
	grn := h.admittedGRN(t, po, m, 60, nil)

	_, err := h.returnUC.Create(ctx, procurement.CreateReturnInput{
		GRNID:  grn.ID,
		Items:  []procurement.ReturnItemInput{{MaterialID: m.ID, Quantity: d(80)}},
		Reason: "daño",
		Actor:  "ana",
	})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	gotM, err := h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.Equal(d(60)), "la devolución rechazada no debe tocar stock")
}

func TestDevolucion_TopePorGRNNoPorOrden(t *testing.T) {
	// Dos GRN sobre el mismo renglón: el tope de una devolución es lo que SU
	// nota admitió, no el acumulado de la orden. Devolver 80 contra la nota
	// de 60 se rechaza aunque la orden ya recibió 100.
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)
	grnA := h.admittedGRN(t, po, m, 60, nil)
	grnB := h.admittedGRN(t, po, m, 40, nil)

	_, err := h.returnUC.Create(ctx, procurement.CreateReturnInput{
		GRNID:  grnA.ID,
		Items:  []procurement.ReturnItemInput{{MaterialID: m.ID, Quantity: d(80)}},
		Reason: "daño",
		Actor:  "ana",
	})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	gotM, err := h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.Equal(d(100)), "la devolución rechazada no debe tocar stock")

	// Hasta lo admitido por cada nota sí pasa
	_, err = h.returnUC.Create(ctx, procurement.CreateReturnInput{
		GRNID:  grnA.ID,
		Items:  []procurement.ReturnItemInput{{MaterialID: m.ID, Quantity: d(60)}},
		Reason: "daño",
		Actor:  "ana",
	})
	require.NoError(t, err)

	// El acumulado contra la misma nota también respeta el tope
	_, err = h.returnUC.Create(ctx, procurement.CreateReturnInput{
		GRNID:  grnA.ID,
		Items:  []procurement.ReturnItemInput{{MaterialID: m.ID, Quantity: d(10)}},
		Reason: "daño",
		Actor:  "ana",
	})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	_, err = h.returnUC.Create(ctx, procurement.CreateReturnInput{
		GRNID:  grnB.ID,
		Items:  []procurement.ReturnItemInput{{MaterialID: m.ID, Quantity: d(40)}},
		Reason: "daño",
		Actor:  "ana",
	})
	require.NoError(t, err)

	gotM, err = h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, gotM.CurrentStock.IsZero())

	gotPO, err := h.poUC.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.True(t, gotPO.Items[0].ReceivedQty.IsZero())
}

func TestDevolucion_SaltoDeEstadoIlegal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.seedMaterial(t, 0)
	po := h.approvedPO(t, m, 100)
	grn := h.admittedGRN(t, po, m, 100, nil)

	vr, err := h.returnUC.Create(ctx, procurement.CreateReturnInput{
		GRNID:  grn.ID,
		Items:  []procurement.ReturnItemInput{{MaterialID: m.ID, Quantity: d(10)}},
		Reason: "daño",
		Actor:  "ana",
	})
	require.NoError(t, err)

	_, err = h.returnUC.Acknowledge(ctx, vr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
