package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
	"github.com/grupoandino/almacen-api/internal/infrastructure/memory"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func seedMaterial(t *testing.T, r repository.Repos, current, min float64) *entity.Material {
	t.Helper()
	now := time.Now()
	m := &entity.Material{
		ID:           uuid.New().String(),
		Code:         "MAT-" + uuid.New().String()[:8],
		Name:         "azúcar refinada",
		Unit:         entity.UnitKG,
		CurrentStock: d(current),
		MinStock:     d(min),
		LastUpdated:  now,
		CreatedAt:    now,
	}
	require.NoError(t, r.Materials.Create(context.Background(), m))
	return m
}

func TestEvaluateStock_Upsert(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	eval := alerts.NewEvaluator()
	ctx := context.Background()
	now := time.Now()

	m := seedMaterial(t, r, 40, 50) // banda LOW

	change, err := eval.EvaluateStock(ctx, r, m, now)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, alerts.ChangeCreated, change.Type)
	assert.Equal(t, entity.AlertLevelWarning, change.Alert.Level)
	firstID := change.Alert.ID

	// Mismas entradas: no-op, sin duplicados
	change, err = eval.EvaluateStock(ctx, r, m, now)
	require.NoError(t, err)
	assert.Nil(t, change)

	// Cambio de banda: actualiza la misma alerta en vez de crear otra
	m.CurrentStock = d(5) // < 20% del mínimo → CRITICAL
	change, err = eval.EvaluateStock(ctx, r, m, now)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, alerts.ChangeUpdated, change.Type)
	assert.Equal(t, firstID, change.Alert.ID)
	assert.Equal(t, entity.AlertLevelCritical, change.Alert.Level)

	// Vuelta a OK: resuelve
	m.CurrentStock = d(80)
	change, err = eval.EvaluateStock(ctx, r, m, now)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, alerts.ChangeResolved, change.Type)
	assert.Equal(t, entity.AlertStatusResolved, change.Alert.Status)

	open, err := r.Alerts.GetOpen(ctx, m.ID, entity.AlertKindStockLevel)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestEvaluateStock_AgotadoNivelOut(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	eval := alerts.NewEvaluator()

	m := seedMaterial(t, r, 0, 50)
	change, err := eval.EvaluateStock(context.Background(), r, m, time.Now())
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, entity.AlertLevelOut, change.Alert.Level)
}

func TestEvaluateExpiry_TiposIndependientes(t *testing.T) {
	// Un material puede tener abiertas a la vez la alerta de stock y la de
	// vencimiento: son tipos separados del upsert.
	store := memory.NewStore()
	r := store.Repos()
	eval := alerts.NewEvaluator()
	ctx := context.Background()
	now := time.Now()

	m := seedMaterial(t, r, 40, 50)
	_, err := eval.EvaluateStock(ctx, r, m, now)
	require.NoError(t, err)

	lot := &entity.Lot{
		ID:          uuid.New().String(),
		MaterialID:  m.ID,
		Code:        "L-001",
		Quantity:    d(40),
		ExpiryDate:  now.Add(-time.Hour),
		Restriction: entity.RestrictionBlocked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, r.Lots.Create(ctx, lot))

	change, err := eval.EvaluateExpiry(ctx, r, m, lot, now)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, alerts.ChangeCreated, change.Type)
	assert.Equal(t, entity.AlertLevelCritical, change.Alert.Level)

	stockAlert, err := r.Alerts.GetOpen(ctx, m.ID, entity.AlertKindStockLevel)
	require.NoError(t, err)
	expiryAlert, err := r.Alerts.GetOpen(ctx, m.ID, entity.AlertKindExpiry)
	require.NoError(t, err)
	require.NotNil(t, stockAlert)
	require.NotNil(t, expiryAlert)
	assert.NotEqual(t, stockAlert.ID, expiryAlert.ID)
}

func TestEvaluateExpiry_LoteConsumidoResuelve(t *testing.T) {
	store := memory.NewStore()
	r := store.Repos()
	eval := alerts.NewEvaluator()
	ctx := context.Background()
	now := time.Now()

	m := seedMaterial(t, r, 40, 0)
	lot := &entity.Lot{
		ID:          uuid.New().String(),
		MaterialID:  m.ID,
		Code:        "L-002",
		Quantity:    d(40),
		ExpiryDate:  now.Add(5 * 24 * time.Hour),
		Restriction: entity.RestrictionPriorityUse,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, r.Lots.Create(ctx, lot))

	change, err := eval.EvaluateExpiry(ctx, r, m, lot, now)
	require.NoError(t, err)
	require.NotNil(t, change)

	lot.Consumed = true
	change, err = eval.EvaluateExpiry(ctx, r, m, lot, now)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, alerts.ChangeResolved, change.Type)
}
