package expiry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/expiry"
)

var now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func lotExpiringIn(days int) *entity.Lot {
	return &entity.Lot{
		ID:          "lot-1",
		MaterialID:  "mat-1",
		ExpiryDate:  now.AddDate(0, 0, days),
		Restriction: entity.RestrictionNormal,
	}
}

func TestTick_EscalamientoSOP(t *testing.T) {
	cases := []struct {
		days     int
		expected string
	}{
		{31, entity.RestrictionNormal},
		{30, entity.RestrictionNotifyProduction},
		{8, entity.RestrictionNotifyProduction},
		{7, entity.RestrictionPriorityUse},
		{1, entity.RestrictionPriorityUse},
		{0, entity.RestrictionBlocked},
		{-3, entity.RestrictionBlocked},
	}
	for _, tc := range cases {
		got := expiry.Tick(lotExpiringIn(tc.days), now)
		assert.Equal(t, tc.expected, got, "lote con %d días restantes", tc.days)
	}
}

func TestTick_NoSeRelaja(t *testing.T) {
	// Restricción registrada más estricta que la calculada: se conserva.
	lot := lotExpiringIn(60)
	lot.Restriction = entity.RestrictionPriorityUse
	assert.Equal(t, entity.RestrictionPriorityUse, expiry.Tick(lot, now))

	// BLOCKED es terminal aunque el reloj retroceda.
	lot.Restriction = entity.RestrictionBlocked
	assert.Equal(t, entity.RestrictionBlocked, expiry.Tick(lot, now))
}

func TestDaysRemaining_Truncamiento(t *testing.T) {
	// 30 días y medio → 30 (aplica el umbral NOTIFY)
	expiresAt := now.Add(30*24*time.Hour + 12*time.Hour)
	assert.Equal(t, 30, expiry.DaysRemaining(expiresAt, now))

	// vencido hace medio día → negativo, nunca 0 "con día en curso"
	assert.Equal(t, -1, expiry.DaysRemaining(now.Add(-12*time.Hour), now))
}

func TestStateFor_Bandas(t *testing.T) {
	assert.Equal(t, entity.RestrictionNormal, expiry.StateFor(45))
	assert.Equal(t, entity.RestrictionNotifyProduction, expiry.StateFor(15))
	assert.Equal(t, entity.RestrictionPriorityUse, expiry.StateFor(3))
	assert.Equal(t, entity.RestrictionBlocked, expiry.StateFor(0))
}
