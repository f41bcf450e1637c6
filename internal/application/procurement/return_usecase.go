package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/application/ledger"
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
	"github.com/grupoandino/almacen-api/internal/domain/workflow"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
)

// ReturnUseCase devoluciones a proveedor: DRAFT → SENT → ACKNOWLEDGED.
// Las devoluciones por rechazo de QC nacen del flujo de GRN y no tocan stock
// (el material nunca fue admitido). Una devolución sobre stock ya admitido
// genera asientos RETURN de reversa y retrocede el avance de la orden,
// pudiendo regresar una PO de FULLY_RECEIVED a PARTIALLY_RECEIVED.
type ReturnUseCase struct {
	tx         repository.TxRunner
	returnRepo repository.VendorReturnRepository
	ledgerUC   *ledger.ApplyEntryUseCase
	feed       *events.Feed
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(
	tx repository.TxRunner,
	returnRepo repository.VendorReturnRepository,
	ledgerUC *ledger.ApplyEntryUseCase,
	feed *events.Feed,
) *ReturnUseCase {
	return &ReturnUseCase{tx: tx, returnRepo: returnRepo, ledgerUC: ledgerUC, feed: feed}
}

// ReturnItemInput renglón a devolver.
type ReturnItemInput struct {
	MaterialID string
	LotID      string
	Quantity   decimal.Decimal
	Remarks    string
}

// CreateReturnInput devolución manual sobre una GRN con stock ya admitido.
type CreateReturnInput struct {
	GRNID  string
	Items  []ReturnItemInput
	Reason string
	Actor  string
}

// Create crea una devolución sobre stock admitido (GRN con QC aprobado):
// en la misma transacción se reversan los asientos y el avance de la PO.
func (uc *ReturnUseCase) Create(ctx context.Context, input CreateReturnInput) (*entity.VendorReturn, error) {
	if input.GRNID == "" || input.Actor == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var (
		vr       *entity.VendorReturn
		reversed []admitted
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		reversed = reversed[:0]

		// Bloqueo de la GRN: las devoluciones contra una misma nota se
		// serializan para que el acumulado devuelto se valide sobre estado firme.
		grn, err := r.GRNs.GetForUpdate(ctx, input.GRNID)
		if err != nil {
			return err
		}
		if grn == nil {
			return domain.ErrNotFound
		}
		if grn.Status != entity.GRNStatusQCPassed {
			return domain.ErrInvalidTransition
		}

		po, err := r.PurchaseOrders.GetForUpdate(ctx, grn.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}

		returned, err := returnedAgainstGRN(ctx, r, grn.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		number := docNumber("VR")
		items := make([]entity.ReturnItem, 0, len(input.Items))
		for _, it := range input.Items {
			if !it.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			poItem := po.ItemFor(it.MaterialID)
			grnItem := grn.ItemFor(it.MaterialID)
			if poItem == nil || grnItem == nil {
				return domain.ErrInvalidInput
			}
			// El tope es lo que ESTA nota admitió, neto de devoluciones
			// previas contra ella; el avance de la PO no autoriza más.
			cum := returned[it.MaterialID].Add(it.Quantity)
			if cum.GreaterThan(grnItem.Quantity) {
				return fmt.Errorf("%w: material %s, devuelto %s, admitido por GRN %s",
					domain.ErrOverReceipt, it.MaterialID, cum.String(), grnItem.Quantity.String())
			}
			returned[it.MaterialID] = cum
			if it.Quantity.GreaterThan(poItem.ReceivedQty) {
				return domain.ErrInvalidInput
			}

			entry, material, change, err := uc.ledgerUC.ApplyInTx(ctx, r, ledger.EntryInput{
				MaterialID:   it.MaterialID,
				LotID:        it.LotID,
				Reason:       entity.ReasonReturn,
				Quantity:     it.Quantity,
				SourceDocRef: number,
				Notes:        input.Reason,
				Actor:        input.Actor,
			}, now)
			if err != nil {
				return err
			}
			reversed = append(reversed, admitted{entry: entry, material: material, change: change})

			poItem.ReceivedQty = poItem.ReceivedQty.Sub(it.Quantity)
			items = append(items, entity.ReturnItem{MaterialID: it.MaterialID, Quantity: it.Quantity, Remarks: it.Remarks})
		}

		// Reversa sobre una orden completa la regresa a recepción parcial.
		if po.Status == entity.POStatusFullyReceived && !po.FullyReceived() {
			if err := workflow.Validate(workflow.KindPurchaseOrder, po.Status, entity.POStatusPartiallyReceived); err != nil {
				return err
			}
			po.Status = entity.POStatusPartiallyReceived
		}
		po.UpdatedAt = now
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}

		vr = &entity.VendorReturn{
			ID:         uuid.New().String(),
			Number:     number,
			GRNID:      grn.ID,
			SupplierID: po.SupplierID,
			Status:     entity.ReturnStatusDraft,
			Items:      items,
			Reason:     input.Reason,
			CreatedBy:  input.Actor,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return r.Returns.Create(ctx, vr)
	})
	if err != nil {
		return nil, err
	}

	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "return.created", ID: vr.ID, Payload: vr})
	for _, a := range reversed {
		uc.ledgerUC.PublishChange(a.entry, a.material, a.change)
	}
	return vr, nil
}

// returnedAgainstGRN acumulado devuelto por material contra la GRN, en
// cualquier estado del documento (el asiento de reversa ya se aplicó al crear).
func returnedAgainstGRN(ctx context.Context, r repository.Repos, grnID string) (map[string]decimal.Decimal, error) {
	existing, err := r.Returns.ListByGRN(ctx, grnID)
	if err != nil {
		return nil, err
	}
	returned := make(map[string]decimal.Decimal)
	for _, vr := range existing {
		for _, it := range vr.Items {
			returned[it.MaterialID] = returned[it.MaterialID].Add(it.Quantity)
		}
	}
	return returned, nil
}

// transition paso de estado bajo bloqueo del documento.
func (uc *ReturnUseCase) transition(ctx context.Context, id, to string) (*entity.VendorReturn, error) {
	var out *entity.VendorReturn
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		vr, err := r.Returns.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if vr == nil {
			return domain.ErrNotFound
		}
		if err := workflow.Validate(workflow.KindVendorReturn, vr.Status, to); err != nil {
			return err
		}
		vr.Status = to
		vr.UpdatedAt = time.Now()
		if err := r.Returns.Update(ctx, vr); err != nil {
			return err
		}
		out = vr
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "return.updated", ID: out.ID, Payload: out})
	return out, nil
}

// Send marca la devolución como enviada al proveedor.
func (uc *ReturnUseCase) Send(ctx context.Context, id string) (*entity.VendorReturn, error) {
	return uc.transition(ctx, id, entity.ReturnStatusSent)
}

// Acknowledge registra el acuse del proveedor.
func (uc *ReturnUseCase) Acknowledge(ctx context.Context, id string) (*entity.VendorReturn, error) {
	return uc.transition(ctx, id, entity.ReturnStatusAcknowledged)
}

// GetByID consulta directa.
func (uc *ReturnUseCase) GetByID(ctx context.Context, id string) (*entity.VendorReturn, error) {
	vr, err := uc.returnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vr == nil {
		return nil, domain.ErrNotFound
	}
	return vr, nil
}

// List devoluciones por estado (vacío = todas).
func (uc *ReturnUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.VendorReturn, error) {
	return uc.returnRepo.List(ctx, status, limit, offset)
}
