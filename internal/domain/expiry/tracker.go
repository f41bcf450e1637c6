package expiry

import (
	"time"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// Umbrales del SOP de vencimiento (días restantes).
const (
	NotifyThresholdDays   = 30
	PriorityThresholdDays = 7
)

// rango numérico para comparar severidad de restricciones (mayor = más estricta).
var severity = map[string]int{
	entity.RestrictionNormal:           0,
	entity.RestrictionNotifyProduction: 1,
	entity.RestrictionPriorityUse:      2,
	entity.RestrictionBlocked:          3,
}

// DaysRemaining días completos hasta el vencimiento, truncados hacia cero.
// Un lote que vence dentro de 30.5 días reporta 30; ya vencido reporta <= 0.
func DaysRemaining(expiryDate, now time.Time) int {
	h := expiryDate.Sub(now).Hours()
	if h < 0 {
		// truncar hacia abajo para que un vencimiento reciente no reporte 0 como "le queda hoy"
		d := int(h / 24)
		if float64(d*24) > h {
			d--
		}
		return d
	}
	return int(h / 24)
}

// StateFor restricción que corresponde a los días restantes según el SOP:
// ≤0 BLOCKED, ≤7 PRIORITY_USE, ≤30 NOTIFY_PRODUCTION, resto NORMAL.
func StateFor(daysRemaining int) string {
	switch {
	case daysRemaining <= 0:
		return entity.RestrictionBlocked
	case daysRemaining <= PriorityThresholdDays:
		return entity.RestrictionPriorityUse
	case daysRemaining <= NotifyThresholdDays:
		return entity.RestrictionNotifyProduction
	default:
		return entity.RestrictionNormal
	}
}

// Tick calcula la restricción vigente del lote. Es función pura de
// (ExpiryDate - now) acotada por la restricción ya registrada: la restricción
// solo se endurece, nunca se relaja (un reloj atrasado no desbloquea un lote).
func Tick(lot *entity.Lot, now time.Time) string {
	computed := StateFor(DaysRemaining(lot.ExpiryDate, now))
	if severity[computed] < severity[lot.Restriction] {
		return lot.Restriction
	}
	return computed
}
