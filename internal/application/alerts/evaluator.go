package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
	"github.com/grupoandino/almacen-api/internal/domain/stock"
)

// Resultado de una evaluación sobre una alerta.
const (
	ChangeCreated  = "created"
	ChangeUpdated  = "updated"
	ChangeResolved = "resolved"
)

// Change alerta afectada por una evaluación, para publicar al feed tras commit.
type Change struct {
	Alert *entity.StockAlert
	Type  string // created, updated, resolved
}

// Evaluator deriva alertas del estado de stock y de los vencimientos con
// semántica de upsert: a lo sumo una alerta abierta por (material, tipo), y
// reevaluar con entradas sin cambios no crea duplicados ni modifica nada.
type Evaluator struct{}

// NewEvaluator construye el evaluador.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// nivel de alerta que corresponde a cada banda de stock.
func levelForStatus(s stock.Status) string {
	switch s {
	case stock.StatusLow:
		return entity.AlertLevelWarning
	case stock.StatusCritical:
		return entity.AlertLevelCritical
	case stock.StatusOut:
		return entity.AlertLevelOut
	default:
		return ""
	}
}

// EvaluateStock reclasifica el material y sincroniza su alerta STOCK_LEVEL.
// Volver a banda OK resuelve la alerta abierta; cambiar de banda actualiza la
// existente en vez de duplicarla. Devuelve nil si no hubo cambios.
func (e *Evaluator) EvaluateStock(ctx context.Context, r repository.Repos, m *entity.Material, now time.Time) (*Change, error) {
	status := stock.Classify(m.CurrentStock, m.MinStock)
	level := levelForStatus(status)

	open, err := r.Alerts.GetOpen(ctx, m.ID, entity.AlertKindStockLevel)
	if err != nil {
		return nil, err
	}

	if level == "" {
		// Banda OK: resolver la alerta abierta si existe
		if open == nil {
			return nil, nil
		}
		open.Status = entity.AlertStatusResolved
		open.ResolvedAt = &now
		open.UpdatedAt = now
		if err := r.Alerts.Update(ctx, open); err != nil {
			return nil, err
		}
		return &Change{Alert: open, Type: ChangeResolved}, nil
	}

	msg := fmt.Sprintf("stock de %s en banda %s: %s %s (mínimo %s)",
		m.Code, status, m.CurrentStock.String(), m.Unit, m.MinStock.String())

	if open == nil {
		a := &entity.StockAlert{
			ID:          uuid.New().String(),
			MaterialID:  m.ID,
			Kind:        entity.AlertKindStockLevel,
			Level:       level,
			Status:      entity.AlertStatusActive,
			Message:     msg,
			GeneratedAt: now,
			UpdatedAt:   now,
		}
		if err := r.Alerts.Create(ctx, a); err != nil {
			return nil, err
		}
		return &Change{Alert: a, Type: ChangeCreated}, nil
	}

	if open.Level == level {
		// Mismas entradas, misma alerta: no-op (idempotencia del upsert)
		return nil, nil
	}
	open.Level = level
	open.Message = msg
	open.UpdatedAt = now
	if err := r.Alerts.Update(ctx, open); err != nil {
		return nil, err
	}
	return &Change{Alert: open, Type: ChangeUpdated}, nil
}

// nivel y mensaje para la alerta EXPIRY según la restricción del lote.
func expiryLevel(restriction string) string {
	switch restriction {
	case entity.RestrictionNotifyProduction:
		return entity.AlertLevelWarning
	case entity.RestrictionPriorityUse:
		return entity.AlertLevelCritical
	case entity.RestrictionBlocked:
		return entity.AlertLevelCritical
	default:
		return ""
	}
}

// EvaluateExpiry sincroniza la alerta EXPIRY del material a partir de la
// restricción vigente del lote. Tipo separado del de stock: un material puede
// tener ambas alertas abiertas a la vez.
func (e *Evaluator) EvaluateExpiry(ctx context.Context, r repository.Repos, m *entity.Material, lot *entity.Lot, now time.Time) (*Change, error) {
	level := expiryLevel(lot.Restriction)

	open, err := r.Alerts.GetOpen(ctx, m.ID, entity.AlertKindExpiry)
	if err != nil {
		return nil, err
	}

	if level == "" || lot.Consumed {
		if open == nil {
			return nil, nil
		}
		open.Status = entity.AlertStatusResolved
		open.ResolvedAt = &now
		open.UpdatedAt = now
		if err := r.Alerts.Update(ctx, open); err != nil {
			return nil, err
		}
		return &Change{Alert: open, Type: ChangeResolved}, nil
	}

	var msg string
	if lot.Restriction == entity.RestrictionBlocked {
		msg = fmt.Sprintf("lote %s de %s vencido: consumo bloqueado", lot.Code, m.Code)
	} else {
		msg = fmt.Sprintf("lote %s de %s próximo a vencer (%s): restricción %s",
			lot.Code, m.Code, lot.ExpiryDate.Format("2006-01-02"), lot.Restriction)
	}

	if open == nil {
		a := &entity.StockAlert{
			ID:          uuid.New().String(),
			MaterialID:  m.ID,
			Kind:        entity.AlertKindExpiry,
			Level:       level,
			Status:      entity.AlertStatusActive,
			Message:     msg,
			GeneratedAt: now,
			UpdatedAt:   now,
		}
		if err := r.Alerts.Create(ctx, a); err != nil {
			return nil, err
		}
		return &Change{Alert: a, Type: ChangeCreated}, nil
	}

	if open.Level == level && open.Message == msg {
		return nil, nil
	}
	open.Level = level
	open.Message = msg
	open.UpdatedAt = now
	if err := r.Alerts.Update(ctx, open); err != nil {
		return nil, err
	}
	return &Change{Alert: open, Type: ChangeUpdated}, nil
}
