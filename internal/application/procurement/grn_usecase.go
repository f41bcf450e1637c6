package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/application/ledger"
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/expiry"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
	"github.com/grupoandino/almacen-api/internal/domain/workflow"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
	"github.com/grupoandino/almacen-api/pkg/logger"
)

// GRNUseCase recepción de mercancía y compuerta de calidad.
// El stock entra al almacén únicamente cuando QC aprueba: en esa misma
// transacción se generan los asientos RECEIPT (con tope en lo autorizado por
// la PO), se crean los lotes vencibles y se actualiza el avance de la orden.
// Un rechazo de QC deriva en una devolución a proveedor en borrador.
type GRNUseCase struct {
	tx       repository.TxRunner
	grnRepo  repository.GRNRepository
	ledgerUC *ledger.ApplyEntryUseCase
	eval     *alerts.Evaluator
	feed     *events.Feed
	log      *logger.Logger
}

// NewGRNUseCase construye el caso de uso.
func NewGRNUseCase(
	tx repository.TxRunner,
	grnRepo repository.GRNRepository,
	ledgerUC *ledger.ApplyEntryUseCase,
	eval *alerts.Evaluator,
	feed *events.Feed,
	log *logger.Logger,
) *GRNUseCase {
	return &GRNUseCase{
		tx:       tx,
		grnRepo:  grnRepo,
		ledgerUC: ledgerUC,
		eval:     eval,
		feed:     feed,
		log:      log,
	}
}

// GRNItemInput renglón recibido físicamente.
type GRNItemInput struct {
	MaterialID string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	LotCode    string
	ExpiryDate *time.Time
}

// CreateGRNInput entrada para registrar la recepción física.
type CreateGRNInput struct {
	POID       string
	Items      []GRNItemInput
	VehicleNo  string
	ReceivedBy string
}

// Create registra la GRN en DRAFT contra una orden APPROVED o en recepción
// parcial. Un renglón que excede lo pendiente de la orden se rechaza de
// entrada con ErrOverReceipt (y se revalida bajo bloqueo al aprobar QC).
func (uc *GRNUseCase) Create(ctx context.Context, input CreateGRNInput) (*entity.GRN, error) {
	if input.POID == "" || input.ReceivedBy == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var grn *entity.GRN
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := r.PurchaseOrders.GetForUpdate(ctx, input.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.POStatusApproved && po.Status != entity.POStatusPartiallyReceived {
			return domain.ErrInvalidTransition
		}

		items := make([]entity.GRNItem, 0, len(input.Items))
		for _, it := range input.Items {
			if !it.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			poItem := po.ItemFor(it.MaterialID)
			if poItem == nil {
				return domain.ErrInvalidInput
			}
			if it.Quantity.GreaterThan(poItem.Remaining()) {
				return fmt.Errorf("%w: material %s, recibido %s, pendiente %s",
					domain.ErrOverReceipt, it.MaterialID, it.Quantity.String(), poItem.Remaining().String())
			}
			items = append(items, entity.GRNItem{
				MaterialID: it.MaterialID,
				Quantity:   it.Quantity,
				UnitPrice:  it.UnitPrice,
				LotCode:    it.LotCode,
				ExpiryDate: it.ExpiryDate,
			})
		}

		now := time.Now()
		grn = &entity.GRN{
			ID:         uuid.New().String(),
			Number:     docNumber("GRN"),
			POID:       po.ID,
			Status:     entity.GRNStatusDraft,
			Items:      items,
			VehicleNo:  input.VehicleNo,
			ReceivedBy: input.ReceivedBy,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return r.GRNs.Create(ctx, grn)
	})
	if err != nil {
		return nil, err
	}
	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "grn.created", ID: grn.ID, Payload: grn})
	return grn, nil
}

// Submit envía la GRN a inspección de calidad (DRAFT → PENDING_QC).
func (uc *GRNUseCase) Submit(ctx context.Context, id string) (*entity.GRN, error) {
	var out *entity.GRN
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		grn, err := r.GRNs.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if grn == nil {
			return domain.ErrNotFound
		}
		if err := workflow.Validate(workflow.KindGRN, grn.Status, entity.GRNStatusPendingQC); err != nil {
			return err
		}
		grn.Status = entity.GRNStatusPendingQC
		grn.UpdatedAt = time.Now()
		if err := r.GRNs.Update(ctx, grn); err != nil {
			return err
		}
		out = grn
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "grn.updated", ID: out.ID, Payload: out})
	return out, nil
}

// InspectionLineInput detalle de rechazo por material (resultado FAILED).
type InspectionLineInput struct {
	MaterialID  string
	RejectedQty decimal.Decimal
	Remarks     string
}

// InspectionInput acta de inspección sobre una GRN en PENDING_QC.
type InspectionInput struct {
	GRNID     string
	Result    string // PASSED, FAILED
	Inspector string
	Notes     string
	Lines     []InspectionLineInput
}

// admitted resultado de la admisión para publicar tras commit.
type admitted struct {
	entry    *entity.LedgerEntry
	material *entity.Material
	change   *alerts.Change
	lot      *entity.Lot
}

// RecordInspection registra el acta y ejecuta la transición de la GRN.
// PASSED admite el stock (asientos RECEIPT + lotes + avance de la PO) en una
// sola transacción: si algún renglón excede lo autorizado, nada se aplica.
// FAILED marca QC_FAILED y crea la devolución a proveedor en borrador.
func (uc *GRNUseCase) RecordInspection(ctx context.Context, input InspectionInput) (*entity.GRN, error) {
	if input.GRNID == "" || input.Inspector == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Result != entity.InspectionPassed && input.Result != entity.InspectionFailed {
		return nil, domain.ErrInvalidInput
	}

	var (
		out       *entity.GRN
		admits    []admitted
		vendorRet *entity.VendorReturn
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		admits = admits[:0]
		vendorRet = nil

		grn, err := r.GRNs.GetForUpdate(ctx, input.GRNID)
		if err != nil {
			return err
		}
		if grn == nil {
			return domain.ErrNotFound
		}

		to := entity.GRNStatusQCPassed
		if input.Result == entity.InspectionFailed {
			to = entity.GRNStatusQCFailed
		}
		if err := workflow.Validate(workflow.KindGRN, grn.Status, to); err != nil {
			return err
		}

		now := time.Now()
		lines := make([]entity.InspectionLine, 0, len(input.Lines))
		for _, l := range input.Lines {
			lines = append(lines, entity.InspectionLine{
				MaterialID:  l.MaterialID,
				RejectedQty: l.RejectedQty,
				Remarks:     l.Remarks,
			})
		}
		qi := &entity.QualityInspection{
			ID:          uuid.New().String(),
			GRNID:       grn.ID,
			Result:      input.Result,
			Inspector:   input.Inspector,
			Notes:       input.Notes,
			Lines:       lines,
			InspectedAt: now,
		}
		if err := r.Inspections.Create(ctx, qi); err != nil {
			return err
		}

		if input.Result == entity.InspectionPassed {
			if err := uc.admitStock(ctx, r, grn, now, &admits); err != nil {
				return err
			}
		} else {
			vr, err := uc.draftVendorReturn(ctx, r, grn, qi, now)
			if err != nil {
				return err
			}
			vendorRet = vr
		}

		grn.Status = to
		grn.UpdatedAt = now
		if err := r.GRNs.Update(ctx, grn); err != nil {
			return err
		}
		out = grn
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "grn.updated", ID: out.ID, Payload: out})
	for _, a := range admits {
		uc.ledgerUC.PublishChange(a.entry, a.material, a.change)
		if a.lot != nil {
			uc.feed.Publish(events.Event{Topic: events.TopicLots, Type: "created", ID: a.lot.ID, Payload: a.lot})
		}
	}
	if vendorRet != nil {
		uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "return.created", ID: vendorRet.ID, Payload: vendorRet})
	}
	return out, nil
}

// admitStock aplica la admisión de una GRN aprobada dentro de la transacción.
func (uc *GRNUseCase) admitStock(ctx context.Context, r repository.Repos, grn *entity.GRN, now time.Time, admits *[]admitted) error {
	po, err := r.PurchaseOrders.GetForUpdate(ctx, grn.POID)
	if err != nil {
		return err
	}
	if po == nil {
		return domain.ErrNotFound
	}

	// Revalidar topes bajo bloqueo antes de tocar nada: todo-o-nada.
	for i := range grn.Items {
		it := &grn.Items[i]
		poItem := po.ItemFor(it.MaterialID)
		if poItem == nil {
			return domain.ErrInvalidInput
		}
		if it.Quantity.GreaterThan(poItem.Remaining()) {
			return fmt.Errorf("%w: material %s, recibido %s, pendiente %s",
				domain.ErrOverReceipt, it.MaterialID, it.Quantity.String(), poItem.Remaining().String())
		}
	}

	for i := range grn.Items {
		it := &grn.Items[i]

		var lot *entity.Lot
		if it.ExpiryDate != nil {
			lot = &entity.Lot{
				ID:          uuid.New().String(),
				MaterialID:  it.MaterialID,
				Code:        it.LotCode,
				Quantity:    it.Quantity,
				ExpiryDate:  *it.ExpiryDate,
				Restriction: expiry.StateFor(expiry.DaysRemaining(*it.ExpiryDate, now)),
				SourceRef:   grn.Number,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := r.Lots.Create(ctx, lot); err != nil {
				return err
			}
		}

		lotID := ""
		if lot != nil {
			lotID = lot.ID
		}
		entry, material, change, err := uc.ledgerUC.ApplyInTx(ctx, r, ledger.EntryInput{
			MaterialID:   it.MaterialID,
			LotID:        lotID,
			Reason:       entity.ReasonReceipt,
			Quantity:     it.Quantity,
			SourceDocRef: grn.Number,
			Actor:        grn.ReceivedBy,
		}, now)
		if err != nil {
			return err
		}
		*admits = append(*admits, admitted{entry: entry, material: material, change: change, lot: lot})

		// Lote recién admitido ya restringido (p. ej. vida útil corta): alerta EXPIRY
		if lot != nil && lot.Restriction != entity.RestrictionNormal {
			expChange, err := uc.eval.EvaluateExpiry(ctx, r, material, lot, now)
			if err != nil {
				return err
			}
			if expChange != nil {
				*admits = append(*admits, admitted{entry: entry, material: material, change: expChange})
			}
		}

		po.ItemFor(it.MaterialID).ReceivedQty = po.ItemFor(it.MaterialID).ReceivedQty.Add(it.Quantity)
	}

	to := entity.POStatusPartiallyReceived
	if po.FullyReceived() {
		to = entity.POStatusFullyReceived
	}
	if err := workflow.Validate(workflow.KindPurchaseOrder, po.Status, to); err != nil {
		return err
	}
	po.Status = to
	po.UpdatedAt = now
	return r.PurchaseOrders.Update(ctx, po)
}

// draftVendorReturn crea la devolución en borrador por el rechazo de QC.
// El material rechazado nunca fue admitido: no genera asientos de reversa.
func (uc *GRNUseCase) draftVendorReturn(ctx context.Context, r repository.Repos, grn *entity.GRN, qi *entity.QualityInspection, now time.Time) (*entity.VendorReturn, error) {
	po, err := r.PurchaseOrders.GetByID(ctx, grn.POID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}

	rejected := make(map[string]entity.InspectionLine, len(qi.Lines))
	for _, l := range qi.Lines {
		rejected[l.MaterialID] = l
	}

	items := make([]entity.ReturnItem, 0, len(grn.Items))
	for _, it := range grn.Items {
		qty := it.Quantity
		remarks := ""
		if l, ok := rejected[it.MaterialID]; ok && l.RejectedQty.GreaterThan(decimal.Zero) {
			qty = l.RejectedQty
			remarks = l.Remarks
		}
		items = append(items, entity.ReturnItem{MaterialID: it.MaterialID, Quantity: qty, Remarks: remarks})
	}

	vr := &entity.VendorReturn{
		ID:         uuid.New().String(),
		Number:     docNumber("VR"),
		GRNID:      grn.ID,
		SupplierID: po.SupplierID,
		Status:     entity.ReturnStatusDraft,
		Items:      items,
		Reason:     "rechazo de inspección de calidad",
		CreatedBy:  qi.Inspector,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.Returns.Create(ctx, vr); err != nil {
		return nil, err
	}
	return vr, nil
}

// GetByID consulta directa.
func (uc *GRNUseCase) GetByID(ctx context.Context, id string) (*entity.GRN, error) {
	grn, err := uc.grnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, domain.ErrNotFound
	}
	return grn, nil
}

// List GRNs por estado (vacío = todas).
func (uc *GRNUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.GRN, error) {
	return uc.grnRepo.List(ctx, status, limit, offset)
}
