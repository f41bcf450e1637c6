package stock

import "github.com/shopspring/decimal"

// Status banda de salud de stock de un material.
type Status string

// Bandas de clasificación.
const (
	StatusOK       Status = "OK"
	StatusLow      Status = "LOW"      // bajo el mínimo
	StatusCritical Status = "CRITICAL" // bajo el 20% del mínimo
	StatusOut      Status = "OUT"      // agotado
)

// factor sobre el stock mínimo que delimita la banda CRITICAL.
var criticalFactor = decimal.NewFromFloat(0.2)

// Classify clasifica el stock actual contra el mínimo (servicio de dominio, puro).
// currentQty == 0 siempre es OUT. Con minQty <= 0 no hay banda de referencia:
// cualquier cantidad positiva es OK (CRITICAL/LOW serían inalcanzables y una
// comparación contra 0 no debe fallar).
func Classify(currentQty, minQty decimal.Decimal) Status {
	if currentQty.LessThanOrEqual(decimal.Zero) {
		return StatusOut
	}
	if minQty.LessThanOrEqual(decimal.Zero) {
		return StatusOK
	}
	if currentQty.LessThan(minQty.Mul(criticalFactor)) {
		return StatusCritical
	}
	if currentQty.LessThan(minQty) {
		return StatusLow
	}
	return StatusOK
}
