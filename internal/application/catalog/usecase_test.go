package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/almacen-api/internal/application/alerts"
	"github.com/grupoandino/almacen-api/internal/application/catalog"
	"github.com/grupoandino/almacen-api/internal/application/ledger"
	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/stock"
	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
	"github.com/grupoandino/almacen-api/internal/infrastructure/memory"
	"github.com/grupoandino/almacen-api/pkg/logger"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

type harness struct {
	store *memory.Store
	uc    *catalog.UseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	feed := events.NewFeed(8)
	eval := alerts.NewEvaluator()
	log := logger.NewNop()
	applyUC := ledger.NewApplyEntryUseCase(tx, store.Repos().Ledger, eval, feed, log, 3)
	uc := catalog.NewUseCase(
		tx, store.Repos().Materials, store.Repos().Lots, store.Repos().Suppliers,
		applyUC, eval, feed, log,
	)
	return &harness{store: store, uc: uc}
}

func TestCreateMaterial_SiembraApertura(t *testing.T) {
	// El stock de apertura no se asigna directo: se siembra como asiento
	// ADJUSTMENT referenciando OPENING, para que el saldo sea reconstruible
	// desde el libro el primer día.
	h := newHarness(t)
	ctx := context.Background()

	m, err := h.uc.CreateMaterial(ctx, catalog.CreateMaterialInput{
		Code:         "HAR-001",
		Name:         "harina de trigo",
		Unit:         entity.UnitKG,
		OpeningStock: d(100),
		MinStock:     d(50),
		Actor:        "ana",
	})
	require.NoError(t, err)
	assert.True(t, m.CurrentStock.Equal(d(100)))

	entries, err := h.store.Repos().Ledger.ListByMaterial(ctx, m.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonAdjustment, entries[0].Reason)
	assert.Equal(t, "OPENING", entries[0].SourceDocRef)
	assert.True(t, entries[0].Delta.Equal(d(100)))

	sum, err := h.store.Repos().Ledger.SumByMaterial(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, m.CurrentStock.Equal(sum))
}

func TestCreateMaterial_AlertaDesdeElAlta(t *testing.T) {
	// Sin apertura y con mínimo > 0 el material nace agotado: la alerta OUT
	// debe quedar visible desde el alta, no recién en el primer asiento.
	h := newHarness(t)
	ctx := context.Background()

	m, err := h.uc.CreateMaterial(ctx, catalog.CreateMaterialInput{
		Code:     "SAL-001",
		Name:     "sal industrial",
		Unit:     entity.UnitKG,
		MinStock: d(20),
		Actor:    "ana",
	})
	require.NoError(t, err)

	open, err := h.store.Repos().Alerts.GetOpen(ctx, m.ID, entity.AlertKindStockLevel)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, entity.AlertLevelOut, open.Level)
}

func TestCreateMaterial_Validaciones(t *testing.T) {
	h := newHarness(t)
	base := catalog.CreateMaterialInput{
		Code: "X-1", Name: "x", Unit: entity.UnitKG, Actor: "ana",
	}

	cases := []struct {
		name   string
		mutate func(in *catalog.CreateMaterialInput)
	}{
		{"sin código", func(in *catalog.CreateMaterialInput) { in.Code = "" }},
		{"sin nombre", func(in *catalog.CreateMaterialInput) { in.Name = "" }},
		{"sin actor", func(in *catalog.CreateMaterialInput) { in.Actor = "" }},
		{"unidad desconocida", func(in *catalog.CreateMaterialInput) { in.Unit = "TONELADA" }},
		{"mínimo negativo", func(in *catalog.CreateMaterialInput) { in.MinStock = d(-1) }},
		{"apertura negativa", func(in *catalog.CreateMaterialInput) { in.OpeningStock = d(-1) }},
		{"precio negativo", func(in *catalog.CreateMaterialInput) { in.PurchasePrice = d(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := h.uc.CreateMaterial(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateMaterial_ProveedorInexistente(t *testing.T) {
	h := newHarness(t)
	_, err := h.uc.CreateMaterial(context.Background(), catalog.CreateMaterialInput{
		Code: "X-1", Name: "x", Unit: entity.UnitKG, Actor: "ana",
		SupplierID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMaterial_CambioDeMinimoReclasifica(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	m, err := h.uc.CreateMaterial(ctx, catalog.CreateMaterialInput{
		Code: "AZU-001", Name: "azúcar", Unit: entity.UnitKG,
		OpeningStock: d(100), MinStock: d(50), Actor: "ana",
	})
	require.NoError(t, err)

	// Subir el mínimo por encima del stock abre la alerta en la misma operación
	newMin := d(150)
	_, err = h.uc.UpdateMaterial(ctx, m.ID, catalog.UpdateMaterialInput{MinStock: &newMin})
	require.NoError(t, err)

	open, err := h.store.Repos().Alerts.GetOpen(ctx, m.ID, entity.AlertKindStockLevel)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, entity.AlertLevelWarning, open.Level)
}

func TestStockHealth_Bandas(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.CreateMaterial(ctx, catalog.CreateMaterialInput{
		Code: "A-1", Name: "a", Unit: entity.UnitKG,
		OpeningStock: d(100), MinStock: d(50), Actor: "ana",
	})
	require.NoError(t, err)
	_, err = h.uc.CreateMaterial(ctx, catalog.CreateMaterialInput{
		Code: "B-1", Name: "b", Unit: entity.UnitKG,
		MinStock: d(50), Actor: "ana",
	})
	require.NoError(t, err)

	health, err := h.uc.StockHealth(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, health, 2)

	byCode := make(map[string]stock.Status, len(health))
	for _, hm := range health {
		byCode[hm.Material.Code] = hm.Status
	}
	assert.Equal(t, stock.StatusOK, byCode["A-1"])
	assert.Equal(t, stock.StatusOut, byCode["B-1"])
}

func TestSweepExpiry_EndureceYAlerta(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	now := time.Now()

	m, err := h.uc.CreateMaterial(ctx, catalog.CreateMaterialInput{
		Code: "LEV-001", Name: "levadura", Unit: entity.UnitKG,
		OpeningStock: d(40), Actor: "ana",
	})
	require.NoError(t, err)

	lot := &entity.Lot{
		ID:          uuid.New().String(),
		MaterialID:  m.ID,
		Code:        "L-001",
		Quantity:    d(40),
		ExpiryDate:  now.Add(5 * 24 * time.Hour),
		Restriction: entity.RestrictionNormal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, h.store.Repos().Lots.Create(ctx, lot))

	result, err := h.uc.SweepExpiry(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Examined)
	assert.Equal(t, 1, result.Tightened)
	assert.Equal(t, 1, result.Alerts)

	got, err := h.store.Repos().Lots.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RestrictionPriorityUse, got.Restriction)

	open, err := h.store.Repos().Alerts.GetOpen(ctx, m.ID, entity.AlertKindExpiry)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, entity.AlertLevelCritical, open.Level)

	// Segundo barrido con el mismo reloj: idempotente
	result, err = h.uc.SweepExpiry(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Tightened)
	assert.Equal(t, 0, result.Alerts)
}

func TestCreateSupplier_YConsulta(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s, err := h.uc.CreateSupplier(ctx, catalog.CreateSupplierInput{
		Code: "PROV-001", Name: "Molinos del Sur", Email: "ventas@molinos.example",
	})
	require.NoError(t, err)

	got, err := h.uc.GetSupplier(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Molinos del Sur", got.Name)

	_, err = h.uc.CreateSupplier(ctx, catalog.CreateSupplierInput{Name: "sin código"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
