package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/application/ledger"
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/expiry"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
	"github.com/grupoandino/almacen-api/internal/domain/stock"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
	"github.com/grupoandino/almacen-api/pkg/logger"
)

// UseCase catálogo de materiales, proveedores y lotes, más las vistas de
// salud de stock y el barrido periódico de vencimientos.
type UseCase struct {
	tx           repository.TxRunner
	materialRepo repository.MaterialRepository
	lotRepo      repository.LotRepository
	supplierRepo repository.SupplierRepository
	ledgerUC     *ledger.ApplyEntryUseCase
	evaluator    *alerts.Evaluator
	feed         *events.Feed
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx repository.TxRunner,
	materialRepo repository.MaterialRepository,
	lotRepo repository.LotRepository,
	supplierRepo repository.SupplierRepository,
	ledgerUC *ledger.ApplyEntryUseCase,
	evaluator *alerts.Evaluator,
	feed *events.Feed,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx:           tx,
		materialRepo: materialRepo,
		lotRepo:      lotRepo,
		supplierRepo: supplierRepo,
		ledgerUC:     ledgerUC,
		evaluator:    evaluator,
		feed:         feed,
		log:          log,
	}
}

// CreateMaterialInput entrada para dar de alta un material.
type CreateMaterialInput struct {
	Code          string
	Name          string
	Category      string
	Unit          string
	OpeningStock  decimal.Decimal
	MinStock      decimal.Decimal
	SupplierID    string
	PurchasePrice decimal.Decimal
	Actor         string
}

// CreateMaterial da de alta el material. El stock de apertura no se asigna
// directo al materializado: se siembra como un asiento ADJUSTMENT, de modo que
// el saldo siga siendo reconstruible sumando el libro desde el primer día.
func (uc *UseCase) CreateMaterial(ctx context.Context, input CreateMaterialInput) (*entity.Material, error) {
	if input.Code == "" || input.Name == "" || input.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidUnit(input.Unit) {
		return nil, domain.ErrInvalidInput
	}
	if input.MinStock.LessThan(decimal.Zero) || input.OpeningStock.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.PurchasePrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.SupplierID != "" {
		s, err := uc.supplierRepo.GetByID(ctx, input.SupplierID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, domain.ErrNotFound
		}
	}

	var (
		m      *entity.Material
		entry  *entity.LedgerEntry
		change *alerts.Change
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		now := time.Now()
		m = &entity.Material{
			ID:            uuid.New().String(),
			Code:          input.Code,
			Name:          input.Name,
			Category:      input.Category,
			Unit:          input.Unit,
			OpeningStock:  input.OpeningStock,
			CurrentStock:  decimal.Zero,
			MinStock:      input.MinStock,
			SupplierID:    input.SupplierID,
			PurchasePrice: input.PurchasePrice,
			LastUpdated:   now,
			CreatedAt:     now,
		}
		if err := r.Materials.Create(ctx, m); err != nil {
			return err
		}

		if input.OpeningStock.GreaterThan(decimal.Zero) {
			var err error
			entry, m, change, err = uc.ledgerUC.ApplyInTx(ctx, r, ledger.EntryInput{
				MaterialID:   m.ID,
				Reason:       entity.ReasonAdjustment,
				Quantity:     input.OpeningStock,
				SourceDocRef: "OPENING",
				Notes:        "stock de apertura",
				Actor:        input.Actor,
			}, now)
			return err
		}

		// Sin apertura el material arranca en cero; la alerta se sincroniza
		// igual para que un mínimo > 0 quede visible desde el alta.
		var err error
		change, err = uc.evaluator.EvaluateStock(ctx, r, m, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.feed.Publish(events.Event{Topic: events.TopicMaterials, Type: "created", ID: m.ID, Payload: m})
	if entry != nil {
		uc.feed.Publish(events.Event{Topic: events.TopicLedger, Type: "appended", ID: entry.ID, Payload: entry})
	}
	if change != nil {
		uc.feed.Publish(events.Event{Topic: events.TopicAlerts, Type: change.Type, ID: change.Alert.ID, Payload: change.Alert})
	}
	return m, nil
}

// UpdateMaterialInput campos mutables del material. Punteros nil = sin cambio.
type UpdateMaterialInput struct {
	Name          *string
	Category      *string
	MinStock      *decimal.Decimal
	SupplierID    *string
	PurchasePrice *decimal.Decimal
}

// UpdateMaterial modifica el material bajo bloqueo. Cambiar el mínimo
// reclasifica el stock y sincroniza la alerta en la misma transacción.
func (uc *UseCase) UpdateMaterial(ctx context.Context, id string, input UpdateMaterialInput) (*entity.Material, error) {
	var (
		m      *entity.Material
		change *alerts.Change
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		m, err = r.Materials.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}

		if input.Name != nil {
			if *input.Name == "" {
				return domain.ErrInvalidInput
			}
			m.Name = *input.Name
		}
		if input.Category != nil {
			m.Category = *input.Category
		}
		if input.MinStock != nil {
			if input.MinStock.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			m.MinStock = *input.MinStock
		}
		if input.SupplierID != nil {
			if *input.SupplierID != "" {
				s, err := r.Suppliers.GetByID(ctx, *input.SupplierID)
				if err != nil {
					return err
				}
				if s == nil {
					return domain.ErrNotFound
				}
			}
			m.SupplierID = *input.SupplierID
		}
		if input.PurchasePrice != nil {
			if input.PurchasePrice.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			m.PurchasePrice = *input.PurchasePrice
		}

		now := time.Now()
		m.LastUpdated = now
		if err := r.Materials.Update(ctx, m); err != nil {
			return err
		}
		change, err = uc.evaluator.EvaluateStock(ctx, r, m, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.feed.Publish(events.Event{Topic: events.TopicMaterials, Type: "updated", ID: m.ID, Payload: m})
	if change != nil {
		uc.feed.Publish(events.Event{Topic: events.TopicAlerts, Type: change.Type, ID: change.Alert.ID, Payload: change.Alert})
	}
	return m, nil
}

// GetMaterial consulta directa por ID.
func (uc *UseCase) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	m, err := uc.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListMaterials lista paginada del catálogo.
func (uc *UseCase) ListMaterials(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	return uc.materialRepo.List(ctx, limit, offset)
}

// MaterialHealth material con su banda de stock vigente.
type MaterialHealth struct {
	Material *entity.Material
	Status   stock.Status
}

// StockHealth clasifica el catálogo completo por banda de stock.
func (uc *UseCase) StockHealth(ctx context.Context, limit, offset int) ([]MaterialHealth, error) {
	materials, err := uc.materialRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]MaterialHealth, 0, len(materials))
	for _, m := range materials {
		out = append(out, MaterialHealth{Material: m, Status: stock.Classify(m.CurrentStock, m.MinStock)})
	}
	return out, nil
}

// ListLots lotes de un material.
func (uc *UseCase) ListLots(ctx context.Context, materialID string) ([]*entity.Lot, error) {
	m, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return uc.lotRepo.ListByMaterial(ctx, materialID)
}

// SweepResult resumen de un barrido de vencimientos.
type SweepResult struct {
	Examined  int `json:"examined"`
	Tightened int `json:"tightened"`
	Alerts    int `json:"alerts"`
}

const sweepPageSize = 200

// SweepExpiry recorre los lotes abiertos, endurece las restricciones que
// correspondan al reloj y sincroniza las alertas EXPIRY. Pensado para correr
// periódicamente; también se puede disparar a demanda.
func (uc *UseCase) SweepExpiry(ctx context.Context, now time.Time) (*SweepResult, error) {
	result := &SweepResult{}
	var (
		pending    []*alerts.Change
		restricted []*entity.Lot
	)

	for offset := 0; ; offset += sweepPageSize {
		lots, err := uc.lotRepo.ListOpen(ctx, sweepPageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(lots) == 0 {
			break
		}

		for _, open := range lots {
			result.Examined++
			next := expiry.Tick(open, now)
			if next == open.Restriction {
				continue
			}

			lotID := open.ID
			err := uc.tx.Run(ctx, func(r repository.Repos) error {
				l, err := r.Lots.GetForUpdate(ctx, lotID)
				if err != nil {
					return err
				}
				if l == nil || l.Consumed {
					return nil
				}
				tightened := expiry.Tick(l, now)
				if tightened == l.Restriction {
					return nil
				}
				l.Restriction = tightened
				l.UpdatedAt = now
				if err := r.Lots.Update(ctx, l); err != nil {
					return err
				}
				result.Tightened++

				m, err := r.Materials.GetByID(ctx, l.MaterialID)
				if err != nil {
					return err
				}
				if m == nil {
					return domain.ErrNotFound
				}
				change, err := uc.evaluator.EvaluateExpiry(ctx, r, m, l, now)
				if err != nil {
					return err
				}
				if change != nil {
					pending = append(pending, change)
				}
				restricted = append(restricted, l)
				return nil
			})
			if err != nil {
				return nil, err
			}
		}

		if len(lots) < sweepPageSize {
			break
		}
	}

	for _, l := range restricted {
		uc.feed.Publish(events.Event{Topic: events.TopicLots, Type: "restricted", ID: l.ID, Payload: l})
	}
	for _, change := range pending {
		result.Alerts++
		uc.feed.Publish(events.Event{Topic: events.TopicAlerts, Type: change.Type, ID: change.Alert.ID, Payload: change.Alert})
	}
	uc.log.Info().
		Int("examined", result.Examined).
		Int("tightened", result.Tightened).
		Int("alerts", result.Alerts).
		Msg("barrido de vencimientos completado")
	return result, nil
}

// CreateSupplierInput entrada para registrar un proveedor.
type CreateSupplierInput struct {
	Code    string
	Name    string
	Contact string
	Phone   string
	Email   string
	Address string
}

// CreateSupplier registra un proveedor.
func (uc *UseCase) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*entity.Supplier, error) {
	if input.Code == "" || input.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Code:      input.Code,
		Name:      input.Name,
		Contact:   input.Contact,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		CreatedAt: time.Now(),
	}
	if err := uc.supplierRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSupplier consulta directa.
func (uc *UseCase) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ListSuppliers lista paginada.
func (uc *UseCase) ListSuppliers(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	return uc.supplierRepo.List(ctx, limit, offset)
}
