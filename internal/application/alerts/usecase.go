package alerts

import (
	"context"
	"time"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
)

// UseCase operaciones de consulta y reconocimiento de alertas.
// La resolución sigue siendo exclusiva del motor (Evaluator); un operador solo
// puede reconocer una alerta activa.
type UseCase struct {
	alertRepo repository.AlertRepository
	feed      *events.Feed
}

// NewUseCase construye el caso de uso.
func NewUseCase(alertRepo repository.AlertRepository, feed *events.Feed) *UseCase {
	return &UseCase{alertRepo: alertRepo, feed: feed}
}

// Acknowledge marca una alerta ACTIVE como ACKNOWLEDGED por el actor.
func (uc *UseCase) Acknowledge(ctx context.Context, alertID, actor string) (*entity.StockAlert, error) {
	a, err := uc.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if a.Status != entity.AlertStatusActive {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	a.Status = entity.AlertStatusAcknowledged
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = actor
	a.UpdatedAt = now
	if err := uc.alertRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.feed.Publish(events.Event{Topic: events.TopicAlerts, Type: "acknowledged", ID: a.ID, Payload: a})
	return a, nil
}

// ListOpen alertas ACTIVE/ACKNOWLEDGED para el panel.
func (uc *UseCase) ListOpen(ctx context.Context, limit, offset int) ([]*entity.StockAlert, error) {
	return uc.alertRepo.ListOpen(ctx, limit, offset)
}

// ListByMaterial historial de alertas de un material.
func (uc *UseCase) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockAlert, error) {
	return uc.alertRepo.ListByMaterial(ctx, materialID, limit, offset)
}
