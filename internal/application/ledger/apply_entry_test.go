package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/application/ledger"
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
	"github.com/grupoandino/almacen-api/internal/infrastructure/memory"
	"github.com/grupoandino/almacen-api/pkg/logger"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

type harness struct {
	store *memory.Store
	tx    *memory.TxRunner
	uc    *ledger.ApplyEntryUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	uc := ledger.NewApplyEntryUseCase(
		tx, store.Repos().Ledger, alerts.NewEvaluator(),
		events.NewFeed(8), logger.NewNop(), 3,
	)
	return &harness{store: store, tx: tx, uc: uc}
}

func (h *harness) seedMaterial(t *testing.T, current, min float64) *entity.Material {
	t.Helper()
	now := time.Now()
	m := &entity.Material{
		ID:           uuid.New().String(),
		Code:         "MAT-" + uuid.New().String()[:8],
		Name:         "harina de trigo",
		Unit:         entity.UnitKG,
		CurrentStock: d(current),
		MinStock:     d(min),
		LastUpdated:  now,
		CreatedAt:    now,
	}
	require.NoError(t, h.store.Repos().Materials.Create(context.Background(), m))
	return m
}

func (h *harness) seedLot(t *testing.T, materialID string, qty float64, expiry time.Time) *entity.Lot {
	t.Helper()
	now := time.Now()
	l := &entity.Lot{
		ID:          uuid.New().String(),
		MaterialID:  materialID,
		Code:        "L-" + uuid.New().String()[:8],
		Quantity:    d(qty),
		ExpiryDate:  expiry,
		Restriction: entity.RestrictionNormal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, h.store.Repos().Lots.Create(context.Background(), l))
	return l
}

func TestApply_EntradaInvalida(t *testing.T) {
	h := newHarness(t)
	m := h.seedMaterial(t, 100, 0)

	cases := []struct {
		name  string
		input ledger.EntryInput
	}{
		{"sin material", ledger.EntryInput{Reason: entity.ReasonIssue, Quantity: d(1), Actor: "ana"}},
		{"sin actor", ledger.EntryInput{MaterialID: m.ID, Reason: entity.ReasonIssue, Quantity: d(1)}},
		{"motivo desconocido", ledger.EntryInput{MaterialID: m.ID, Reason: "TELEPORT", Quantity: d(1), Actor: "ana"}},
		{"cantidad cero", ledger.EntryInput{MaterialID: m.ID, Reason: entity.ReasonIssue, Quantity: decimal.Zero, Actor: "ana"}},
		{"cantidad negativa fuera de ajuste", ledger.EntryInput{MaterialID: m.ID, Reason: entity.ReasonIssue, Quantity: d(-5), Actor: "ana"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.uc.Apply(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApply_DeltasFirmados(t *testing.T) {
	cases := []struct {
		reason   string
		qty      float64
		expected float64
	}{
		{entity.ReasonReceipt, 10, 10},
		{entity.ReasonTransferIn, 10, 10},
		{entity.ReasonIssue, 10, -10},
		{entity.ReasonTransferOut, 10, -10},
		{entity.ReasonReturn, 10, -10},
		{entity.ReasonWastage, 10, -10},
		{entity.ReasonAdjustment, 10, 10},
		{entity.ReasonAdjustment, -10, -10},
	}
	for _, tc := range cases {
		t.Run(tc.reason, func(t *testing.T) {
			h := newHarness(t)
			m := h.seedMaterial(t, 100, 0)

			_, err := h.uc.Apply(context.Background(), ledger.EntryInput{
				MaterialID: m.ID,
				Reason:     tc.reason,
				Quantity:   d(tc.qty),
				Actor:      "ana",
			})
			require.NoError(t, err)

			entries, err := h.store.Repos().Ledger.ListByMaterial(context.Background(), m.ID, 10, 0)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.True(t, entries[0].Delta.Equal(d(tc.expected)),
				"delta %s, esperado %v", entries[0].Delta, tc.expected)
		})
	}
}

func TestApply_StockInsuficiente(t *testing.T) {
	h := newHarness(t)
	m := h.seedMaterial(t, 30, 0)

	_, err := h.uc.Apply(context.Background(), ledger.EntryInput{
		MaterialID: m.ID,
		Reason:     entity.ReasonIssue,
		Quantity:   d(50),
		Actor:      "ana",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo-o-nada: ni asiento ni cambio de saldo
	got, err := h.store.Repos().Materials.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(d(30)))
	entries, err := h.store.Repos().Ledger.ListByMaterial(context.Background(), m.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApply_AjusteNegativoBajoCero(t *testing.T) {
	// ADJUSTMENT aplica su delta incondicionalmente: el saldo puede quedar
	// negativo y queda para conciliación de auditoría.
	h := newHarness(t)
	m := h.seedMaterial(t, 10, 0)

	got, err := h.uc.Apply(context.Background(), ledger.EntryInput{
		MaterialID: m.ID,
		Reason:     entity.ReasonAdjustment,
		Quantity:   d(-25),
		Actor:      "ana",
	})
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(d(-15)))
}

func TestApply_LoteBloqueadoRechazaEmision(t *testing.T) {
	h := newHarness(t)
	m := h.seedMaterial(t, 100, 0)
	lot := h.seedLot(t, m.ID, 50, time.Now().Add(-24*time.Hour)) // ya vencido

	_, err := h.uc.Apply(context.Background(), ledger.EntryInput{
		MaterialID: m.ID,
		LotID:      lot.ID,
		Reason:     entity.ReasonIssue,
		Quantity:   d(10),
		Actor:      "ana",
	})
	require.ErrorIs(t, err, domain.ErrBlockedLot)

	got, err := h.store.Repos().Materials.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(d(100)))
}

func TestApply_ConsumoDeLote(t *testing.T) {
	h := newHarness(t)
	m := h.seedMaterial(t, 100, 0)
	lot := h.seedLot(t, m.ID, 30, time.Now().Add(90*24*time.Hour))

	_, err := h.uc.Apply(context.Background(), ledger.EntryInput{
		MaterialID: m.ID,
		LotID:      lot.ID,
		Reason:     entity.ReasonIssue,
		Quantity:   d(30),
		Actor:      "ana",
	})
	require.NoError(t, err)

	got, err := h.store.Repos().Lots.GetByID(context.Background(), lot.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
	assert.True(t, got.Consumed, "lote agotado debe quedar consumido")
}

func TestApply_LeyDeReproduccion(t *testing.T) {
	h := newHarness(t)
	m := h.seedMaterial(t, 0, 0)
	ctx := context.Background()

	steps := []ledger.EntryInput{
		{MaterialID: m.ID, Reason: entity.ReasonAdjustment, Quantity: d(100), SourceDocRef: "OPENING", Actor: "ana"},
		{MaterialID: m.ID, Reason: entity.ReasonReceipt, Quantity: d(40), Actor: "ana"},
		{MaterialID: m.ID, Reason: entity.ReasonIssue, Quantity: d(65), Actor: "ana"},
		{MaterialID: m.ID, Reason: entity.ReasonWastage, Quantity: d(5), Actor: "ana"},
		{MaterialID: m.ID, Reason: entity.ReasonReturn, Quantity: d(10), Actor: "ana"},
	}
	for _, in := range steps {
		_, err := h.uc.Apply(ctx, in)
		require.NoError(t, err)
	}

	got, err := h.store.Repos().Materials.GetByID(ctx, m.ID)
	require.NoError(t, err)
	sum, err := h.store.Repos().Ledger.SumByMaterial(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(sum),
		"materializado %s debe igualar la suma del libro %s", got.CurrentStock, sum)
	assert.True(t, got.CurrentStock.Equal(d(60)))
}

func TestApply_AcopleDeAlertas(t *testing.T) {
	// Emitir 60 de un material 100/mín 50 deja el stock en banda LOW y debe
	// abrir la alerta WARNING en el mismo asiento; recibir 20 vuelve a OK y
	// la resuelve.
	h := newHarness(t)
	m := h.seedMaterial(t, 100, 50)
	ctx := context.Background()

	_, err := h.uc.Apply(ctx, ledger.EntryInput{
		MaterialID: m.ID, Reason: entity.ReasonIssue, Quantity: d(60), Actor: "ana",
	})
	require.NoError(t, err)

	open, err := h.store.Repos().Alerts.GetOpen(ctx, m.ID, entity.AlertKindStockLevel)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, entity.AlertLevelWarning, open.Level)
	assert.Equal(t, entity.AlertStatusActive, open.Status)

	_, err = h.uc.Apply(ctx, ledger.EntryInput{
		MaterialID: m.ID, Reason: entity.ReasonReceipt, Quantity: d(20), Actor: "ana",
	})
	require.NoError(t, err)

	open, err = h.store.Repos().Alerts.GetOpen(ctx, m.ID, entity.AlertKindStockLevel)
	require.NoError(t, err)
	assert.Nil(t, open, "volver a banda OK debe resolver la alerta abierta")
}

func TestApply_ReintentoAnteConflicto(t *testing.T) {
	h := newHarness(t)
	m := h.seedMaterial(t, 100, 0)
	ctx := context.Background()

	// Dos colisiones consecutivas: el tercer intento debe completar
	h.tx.InjectConflicts(2)
	got, err := h.uc.Apply(ctx, ledger.EntryInput{
		MaterialID: m.ID, Reason: entity.ReasonIssue, Quantity: d(10), Actor: "ana",
	})
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(d(90)))

	// Colisiones que agotan los reintentos devuelven el conflicto al caller
	h.tx.InjectConflicts(3)
	_, err = h.uc.Apply(ctx, ledger.EntryInput{
		MaterialID: m.ID, Reason: entity.ReasonIssue, Quantity: d(10), Actor: "ana",
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	entries, err := h.store.Repos().Ledger.ListByMaterial(ctx, m.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "la operación fallida no debe dejar asientos")
}

func TestApply_MaterialInexistente(t *testing.T) {
	h := newHarness(t)
	_, err := h.uc.Apply(context.Background(), ledger.EntryInput{
		MaterialID: uuid.New().String(),
		Reason:     entity.ReasonReceipt,
		Quantity:   d(10),
		Actor:      "ana",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
