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

// InvoiceUseCase facturas de almacén: salida de material admitido por una GRN
// hacia un destino interno. Emitir la factura (DRAFT → ISSUED) genera los
// asientos ISSUE en la misma transacción; emitida es inmutable. El acumulado
// facturado contra una GRN nunca puede exceder lo admitido por ella.
type InvoiceUseCase struct {
	tx          repository.TxRunner
	invoiceRepo repository.StoreInvoiceRepository
	ledgerUC    *ledger.ApplyEntryUseCase
	feed        *events.Feed
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	tx repository.TxRunner,
	invoiceRepo repository.StoreInvoiceRepository,
	ledgerUC *ledger.ApplyEntryUseCase,
	feed *events.Feed,
) *InvoiceUseCase {
	return &InvoiceUseCase{tx: tx, invoiceRepo: invoiceRepo, ledgerUC: ledgerUC, feed: feed}
}

// InvoiceItemInput renglón a emitir. LotID para consumo de lote vencible.
type InvoiceItemInput struct {
	MaterialID string
	LotID      string
	Quantity   decimal.Decimal
}

// CreateInvoiceInput entrada para crear la factura en borrador.
type CreateInvoiceInput struct {
	GRNID    string
	IssuedTo string
	Items    []InvoiceItemInput
	Actor    string
}

// Create crea la factura en DRAFT contra una GRN con QC aprobado.
func (uc *InvoiceUseCase) Create(ctx context.Context, input CreateInvoiceInput) (*entity.StoreInvoice, error) {
	if input.GRNID == "" || input.IssuedTo == "" || input.Actor == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var si *entity.StoreInvoice
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		grn, err := r.GRNs.GetByID(ctx, input.GRNID)
		if err != nil {
			return err
		}
		if grn == nil {
			return domain.ErrNotFound
		}
		if grn.Status != entity.GRNStatusQCPassed {
			return domain.ErrInvalidTransition
		}

		issued, err := issuedAgainstGRN(ctx, r, grn.ID, "")
		if err != nil {
			return err
		}

		items := make([]entity.InvoiceItem, 0, len(input.Items))
		for _, it := range input.Items {
			if !it.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			grnItem := grn.ItemFor(it.MaterialID)
			if grnItem == nil {
				return domain.ErrInvalidInput
			}
			cum := issued[it.MaterialID].Add(it.Quantity)
			if cum.GreaterThan(grnItem.Quantity) {
				return fmt.Errorf("%w: material %s, acumulado %s, admitido por GRN %s",
					domain.ErrOverReceipt, it.MaterialID, cum.String(), grnItem.Quantity.String())
			}
			issued[it.MaterialID] = cum
			items = append(items, entity.InvoiceItem{
				MaterialID: it.MaterialID,
				LotID:      it.LotID,
				Quantity:   it.Quantity,
				UnitPrice:  grnItem.UnitPrice,
			})
		}

		now := time.Now()
		si = &entity.StoreInvoice{
			ID:        uuid.New().String(),
			Number:    docNumber("SI"),
			GRNID:     grn.ID,
			IssuedTo:  input.IssuedTo,
			Status:    entity.InvoiceStatusDraft,
			Items:     items,
			CreatedBy: input.Actor,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return r.Invoices.Create(ctx, si)
	})
	if err != nil {
		return nil, err
	}
	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "invoice.created", ID: si.ID, Payload: si})
	return si, nil
}

// issuedAgainstGRN acumulado emitido por material contra la GRN (facturas
// ISSUED), excluyendo opcionalmente una factura.
func issuedAgainstGRN(ctx context.Context, r repository.Repos, grnID, excludeID string) (map[string]decimal.Decimal, error) {
	existing, err := r.Invoices.ListByGRN(ctx, grnID)
	if err != nil {
		return nil, err
	}
	issued := make(map[string]decimal.Decimal)
	for _, inv := range existing {
		if inv.ID == excludeID || inv.Status != entity.InvoiceStatusIssued {
			continue
		}
		for _, it := range inv.Items {
			issued[it.MaterialID] = issued[it.MaterialID].Add(it.Quantity)
		}
	}
	return issued, nil
}

// Issue emite la factura: valida topes contra la GRN bajo bloqueo, aplica los
// asientos ISSUE (con rechazo de lote BLOCKED y de stock insuficiente) y deja
// el documento inmutable. Si cualquier renglón falla, nada se aplica.
func (uc *InvoiceUseCase) Issue(ctx context.Context, id string) (*entity.StoreInvoice, error) {
	var (
		out    *entity.StoreInvoice
		issued []admitted
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		issued = issued[:0]

		si, err := r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if si == nil {
			return domain.ErrNotFound
		}
		if err := workflow.Validate(workflow.KindStoreInvoice, si.Status, entity.InvoiceStatusIssued); err != nil {
			return err
		}

		// Bloqueo de la GRN: la emisión se serializa por nota para que el
		// acumulado facturado se revalide sobre estado firme.
		grn, err := r.GRNs.GetForUpdate(ctx, si.GRNID)
		if err != nil {
			return err
		}
		if grn == nil {
			return domain.ErrNotFound
		}

		// Revalidar el acumulado: otra factura pudo emitirse entre la
		// creación del borrador y esta emisión.
		cumulative, err := issuedAgainstGRN(ctx, r, grn.ID, si.ID)
		if err != nil {
			return err
		}
		for _, it := range si.Items {
			grnItem := grn.ItemFor(it.MaterialID)
			if grnItem == nil {
				return domain.ErrInvalidInput
			}
			cum := cumulative[it.MaterialID].Add(it.Quantity)
			if cum.GreaterThan(grnItem.Quantity) {
				return fmt.Errorf("%w: material %s, acumulado %s, admitido por GRN %s",
					domain.ErrOverReceipt, it.MaterialID, cum.String(), grnItem.Quantity.String())
			}
			cumulative[it.MaterialID] = cum
		}

		now := time.Now()
		for _, it := range si.Items {
			entry, material, change, err := uc.ledgerUC.ApplyInTx(ctx, r, ledger.EntryInput{
				MaterialID:   it.MaterialID,
				LotID:        it.LotID,
				Reason:       entity.ReasonIssue,
				Quantity:     it.Quantity,
				SourceDocRef: si.Number,
				Notes:        "salida a " + si.IssuedTo,
				Actor:        si.CreatedBy,
			}, now)
			if err != nil {
				return err
			}
			issued = append(issued, admitted{entry: entry, material: material, change: change})
		}

		si.Status = entity.InvoiceStatusIssued
		si.IssuedAt = &now
		si.UpdatedAt = now
		if err := r.Invoices.Update(ctx, si); err != nil {
			return err
		}
		out = si
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "invoice.issued", ID: out.ID, Payload: out})
	for _, a := range issued {
		uc.ledgerUC.PublishChange(a.entry, a.material, a.change)
	}
	return out, nil
}

// GetByID consulta directa.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*entity.StoreInvoice, error) {
	si, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if si == nil {
		return nil, domain.ErrNotFound
	}
	return si, nil
}

// List facturas por estado (vacío = todas).
func (uc *InvoiceUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.StoreInvoice, error) {
	return uc.invoiceRepo.List(ctx, status, limit, offset)
}
