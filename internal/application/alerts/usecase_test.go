package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
	"github.com/grupoandino/almacen-api/internal/infrastructure/memory"
)

func seedAlert(t *testing.T, store *memory.Store, status string) *entity.StockAlert {
	t.Helper()
	now := time.Now()
	a := &entity.StockAlert{
		ID:          uuid.New().String(),
		MaterialID:  uuid.New().String(),
		Kind:        entity.AlertKindStockLevel,
		Level:       entity.AlertLevelWarning,
		Status:      status,
		Message:     "stock en banda LOW",
		GeneratedAt: now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.Repos().Alerts.Create(context.Background(), a))
	return a
}

func TestAcknowledge_AlertaActiva(t *testing.T) {
	store := memory.NewStore()
	uc := alerts.NewUseCase(store.Repos().Alerts, events.NewFeed(8))
	a := seedAlert(t, store, entity.AlertStatusActive)

	got, err := uc.Acknowledge(context.Background(), a.ID, "jorge")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusAcknowledged, got.Status)
	assert.Equal(t, "jorge", got.AcknowledgedBy)
	require.NotNil(t, got.AcknowledgedAt)
}

func TestAcknowledge_SoloDesdeActiva(t *testing.T) {
	store := memory.NewStore()
	uc := alerts.NewUseCase(store.Repos().Alerts, events.NewFeed(8))

	for _, status := range []string{entity.AlertStatusAcknowledged, entity.AlertStatusResolved} {
		t.Run(status, func(t *testing.T) {
			a := seedAlert(t, store, status)
			_, err := uc.Acknowledge(context.Background(), a.ID, "jorge")
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		})
	}
}

func TestAcknowledge_Inexistente(t *testing.T) {
	store := memory.NewStore()
	uc := alerts.NewUseCase(store.Repos().Alerts, events.NewFeed(8))
	_, err := uc.Acknowledge(context.Background(), uuid.New().String(), "jorge")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOpen_IncluyeReconocidas(t *testing.T) {
	store := memory.NewStore()
	uc := alerts.NewUseCase(store.Repos().Alerts, events.NewFeed(8))
	seedAlert(t, store, entity.AlertStatusActive)
	seedAlert(t, store, entity.AlertStatusAcknowledged)
	seedAlert(t, store, entity.AlertStatusResolved)

	open, err := uc.ListOpen(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, open, 2, "el panel muestra activas y reconocidas, no resueltas")
}
