package procurement

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
	"github.com/grupoandino/almacen-api/internal/domain/workflow"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
)

// docNumber consecutivo legible para documentos (PO-3F2A91C4).
func docNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// POUseCase ciclo de vida de órdenes de compra:
// DRAFT → SUBMITTED → APPROVED → (PARTIALLY_RECEIVED ⇄ FULLY_RECEIVED) → CLOSED,
// con cancelación solo desde APPROVED y antes de cualquier GRN.
type POUseCase struct {
	tx           repository.TxRunner
	poRepo       repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	materialRepo repository.MaterialRepository
	feed         *events.Feed
}

// NewPOUseCase construye el caso de uso.
func NewPOUseCase(
	tx repository.TxRunner,
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	materialRepo repository.MaterialRepository,
	feed *events.Feed,
) *POUseCase {
	return &POUseCase{
		tx:           tx,
		poRepo:       poRepo,
		supplierRepo: supplierRepo,
		materialRepo: materialRepo,
		feed:         feed,
	}
}

// POItemInput renglón solicitado.
type POItemInput struct {
	MaterialID string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}

// CreatePOInput entrada para crear una orden en borrador.
type CreatePOInput struct {
	SupplierID string
	Items      []POItemInput
	Notes      string
	Actor      string
}

// Create crea la orden en DRAFT validando proveedor, materiales y cantidades.
func (uc *POUseCase) Create(ctx context.Context, input CreatePOInput) (*entity.PurchaseOrder, error) {
	if input.SupplierID == "" || input.Actor == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	items := make([]entity.POItem, 0, len(input.Items))
	seen := make(map[string]bool, len(input.Items))
	for _, it := range input.Items {
		if !it.Quantity.GreaterThan(decimal.Zero) || it.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if seen[it.MaterialID] {
			return nil, domain.ErrDuplicate
		}
		seen[it.MaterialID] = true
		m, err := uc.materialRepo.GetByID(ctx, it.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.POItem{
			MaterialID:  it.MaterialID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			ReceivedQty: decimal.Zero,
		})
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		Number:     docNumber("PO"),
		SupplierID: input.SupplierID,
		Status:     entity.POStatusDraft,
		Items:      items,
		Notes:      input.Notes,
		CreatedBy:  input.Actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "po.created", ID: po.ID, Payload: po})
	return po, nil
}

// transition aplica un paso de estado bajo bloqueo del documento.
func (uc *POUseCase) transition(ctx context.Context, id, to string, mutate func(r repository.Repos, po *entity.PurchaseOrder) error) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := r.PurchaseOrders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if err := workflow.Validate(workflow.KindPurchaseOrder, po.Status, to); err != nil {
			return err
		}
		if mutate != nil {
			if err := mutate(r, po); err != nil {
				return err
			}
		}
		po.Status = to
		po.UpdatedAt = time.Now()
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		out = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.feed.Publish(events.Event{Topic: events.TopicDocuments, Type: "po.updated", ID: out.ID, Payload: out})
	return out, nil
}

// Submit pasa la orden a SUBMITTED.
func (uc *POUseCase) Submit(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, id, entity.POStatusSubmitted, nil)
}

// Approve aprueba la orden y registra quién aprobó.
func (uc *POUseCase) Approve(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, id, entity.POStatusApproved, func(_ repository.Repos, po *entity.PurchaseOrder) error {
		po.ApprovedBy = actor
		return nil
	})
}

// Cancel cancela la orden. Solo es legal desde APPROVED y sin ninguna GRN
// registrada: con recepciones en curso la cancelación es una transición inválida.
func (uc *POUseCase) Cancel(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, id, entity.POStatusCancelled, func(r repository.Repos, po *entity.PurchaseOrder) error {
		n, err := r.PurchaseOrders.CountGRNs(ctx, po.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

// Close cierra una orden completamente recibida.
func (uc *POUseCase) Close(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, id, entity.POStatusClosed, nil)
}

// GetByID consulta directa.
func (uc *POUseCase) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

// List órdenes por estado (vacío = todas).
func (uc *POUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.poRepo.List(ctx, status, limit, offset)
}
