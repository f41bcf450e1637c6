package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/expiry"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
	"github.com/grupoandino/almacen-api/pkg/logger"
)

// ApplyEntryUseCase aplica asientos al libro de stock de forma transaccional:
// bloquea la fila del material (escritor único por clave), valida las reglas
// de negocio, agrega el asiento inmutable, materializa el nuevo stock y
// recalcula la alerta del material en la misma transacción. Ante colisión de
// escritura concurrente reintenta la operación lógica completa releyendo el
// estado, hasta agotar los reintentos configurados.
type ApplyEntryUseCase struct {
	tx         repository.TxRunner
	ledgerRepo repository.LedgerRepository
	evaluator  *alerts.Evaluator
	feed       *events.Feed
	log        *logger.Logger
	maxRetries int
}

// NewApplyEntryUseCase construye el caso de uso. maxRetries <= 0 usa 3.
func NewApplyEntryUseCase(
	tx repository.TxRunner,
	ledgerRepo repository.LedgerRepository,
	evaluator *alerts.Evaluator,
	feed *events.Feed,
	log *logger.Logger,
	maxRetries int,
) *ApplyEntryUseCase {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ApplyEntryUseCase{
		tx:         tx,
		ledgerRepo: ledgerRepo,
		evaluator:  evaluator,
		feed:       feed,
		log:        log,
		maxRetries: maxRetries,
	}
}

// EntryInput entrada para aplicar un asiento. Quantity es la magnitud del
// movimiento (positiva); el signo del delta lo define el motivo. ADJUSTMENT
// admite cantidad negativa para ajustes a la baja.
type EntryInput struct {
	MaterialID   string
	LotID        string // obligatorio al emitir contra lote vencible
	Reason       string
	Quantity     decimal.Decimal
	SourceDocRef string
	Notes        string
	Actor        string
}

// deltaFor devuelve el delta firmado del asiento según el motivo.
func deltaFor(reason string, qty decimal.Decimal) decimal.Decimal {
	switch reason {
	case entity.ReasonIssue, entity.ReasonTransferOut, entity.ReasonReturn, entity.ReasonWastage:
		return qty.Neg()
	default: // RECEIPT, TRANSFER_IN, ADJUSTMENT (firmado tal cual)
		return qty
	}
}

// validate valida la entrada sin tocar estado.
func (uc *ApplyEntryUseCase) validate(input EntryInput) error {
	if input.MaterialID == "" || input.Actor == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidReason(input.Reason) {
		return domain.ErrInvalidInput
	}
	if input.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	if input.Reason != entity.ReasonAdjustment && input.Quantity.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Apply aplica el asiento con reintentos ante ErrConflict y publica los
// cambios al feed una vez confirmada la transacción.
func (uc *ApplyEntryUseCase) Apply(ctx context.Context, input EntryInput) (*entity.Material, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
	}

	var (
		material *entity.Material
		entry    *entity.LedgerEntry
		change   *alerts.Change
	)

	var err error
	for attempt := 1; attempt <= uc.maxRetries; attempt++ {
		err = uc.tx.Run(ctx, func(r repository.Repos) error {
			var txErr error
			entry, material, change, txErr = uc.ApplyInTx(ctx, r, input, time.Now())
			return txErr
		})
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		uc.log.Warn().
			Str("material_id", input.MaterialID).
			Str("reason", input.Reason).
			Int("attempt", attempt).
			Msg("colisión de escritura en libro de stock, reintentando")
	}
	if err != nil {
		return nil, err
	}

	uc.publish(entry, material, change)
	return material, nil
}

// ApplyInTx aplica el asiento usando los repositorios de una transacción ya
// abierta (para casos de uso de documentos que generan asientos como efecto).
// No publica eventos: eso corresponde al dueño de la transacción tras commit.
func (uc *ApplyEntryUseCase) ApplyInTx(
	ctx context.Context,
	r repository.Repos,
	input EntryInput,
	now time.Time,
) (*entity.LedgerEntry, *entity.Material, *alerts.Change, error) {
	if err := uc.validate(input); err != nil {
		return nil, nil, nil, err
	}

	m, err := r.Materials.GetForUpdate(ctx, input.MaterialID)
	if err != nil {
		return nil, nil, nil, err
	}
	if m == nil {
		return nil, nil, nil, domain.ErrNotFound
	}

	var lot *entity.Lot
	if input.LotID != "" {
		lot, err = r.Lots.GetForUpdate(ctx, input.LotID)
		if err != nil {
			return nil, nil, nil, err
		}
		if lot == nil || lot.MaterialID != m.ID {
			return nil, nil, nil, domain.ErrNotFound
		}
	}

	delta := deltaFor(input.Reason, input.Quantity)

	// El tick de vencimiento va antes de cualquier emisión: un lote BLOCKED
	// se rechaza en la frontera del libro, no después.
	if input.Reason == entity.ReasonIssue && lot != nil {
		lot.Restriction = expiry.Tick(lot, now)
		if lot.Restriction == entity.RestrictionBlocked {
			return nil, nil, nil, domain.ErrBlockedLot
		}
	}

	newQty := m.CurrentStock.Add(delta)
	if (input.Reason == entity.ReasonIssue || input.Reason == entity.ReasonTransferOut) &&
		newQty.LessThan(decimal.Zero) {
		return nil, nil, nil, domain.ErrInsufficientStock
	}
	if newQty.LessThan(decimal.Zero) {
		// ADJUSTMENT/RETURN/WASTAGE aplican su delta incondicionalmente;
		// un saldo negativo queda para conciliación de auditoría.
		uc.log.Warn().
			Str("material_id", m.ID).
			Str("reason", input.Reason).
			Str("balance", newQty.String()).
			Msg("saldo de material negativo tras asiento")
	}

	entry := &entity.LedgerEntry{
		ID:           uuid.New().String(),
		MaterialID:   m.ID,
		LotID:        input.LotID,
		Delta:        delta,
		Reason:       input.Reason,
		SourceDocRef: input.SourceDocRef,
		Notes:        input.Notes,
		CreatedAt:    now,
		CreatedBy:    input.Actor,
	}
	if err := r.Ledger.Append(ctx, entry); err != nil {
		return nil, nil, nil, err
	}

	m.CurrentStock = newQty
	m.LastUpdated = now
	if err := r.Materials.Update(ctx, m); err != nil {
		return nil, nil, nil, err
	}

	// Salidas contra lote descuentan su saldo; agotado queda consumido.
	if lot != nil && delta.LessThan(decimal.Zero) {
		lot.Quantity = lot.Quantity.Add(delta)
		if !lot.Quantity.GreaterThan(decimal.Zero) {
			lot.Quantity = decimal.Zero
			lot.Consumed = true
		}
		lot.UpdatedAt = now
		if err := r.Lots.Update(ctx, lot); err != nil {
			return nil, nil, nil, err
		}
	}

	// Acoplamiento obligatorio: el asiento exitoso recalcula la alerta del
	// material dentro de la misma transacción.
	change, err := uc.evaluator.EvaluateStock(ctx, r, m, now)
	if err != nil {
		return nil, nil, nil, err
	}

	return entry, m, change, nil
}

// publish emite los eventos del asiento confirmado.
func (uc *ApplyEntryUseCase) publish(entry *entity.LedgerEntry, m *entity.Material, change *alerts.Change) {
	uc.feed.Publish(events.Event{Topic: events.TopicLedger, Type: "appended", ID: entry.ID, Payload: entry})
	uc.feed.Publish(events.Event{Topic: events.TopicMaterials, Type: "updated", ID: m.ID, Payload: m})
	if change != nil {
		uc.feed.Publish(events.Event{Topic: events.TopicAlerts, Type: change.Type, ID: change.Alert.ID, Payload: change.Alert})
	}
}

// PublishChange expone la publicación de alertas para los casos de uso de
// documentos que evalúan alertas dentro de sus propias transacciones.
func (uc *ApplyEntryUseCase) PublishChange(entry *entity.LedgerEntry, m *entity.Material, change *alerts.Change) {
	uc.publish(entry, m, change)
}
