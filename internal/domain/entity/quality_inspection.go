package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resultados de una inspección de calidad.
const (
	InspectionPassed = "PASSED"
	InspectionFailed = "FAILED"
)

// QualityInspection acta de inspección de calidad sobre una GRN.
// El resultado define la transición de la GRN: PASSED → QC_PASSED,
// FAILED → QC_FAILED (con devolución a proveedor de lo rechazado).
type QualityInspection struct {
	ID          string
	GRNID       string
	Result      string // PASSED, FAILED
	Inspector   string
	Notes       string
	Lines       []InspectionLine
	InspectedAt time.Time
}

// InspectionLine detalle por material inspeccionado.
type InspectionLine struct {
	MaterialID  string          `json:"material_id"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
	Remarks     string          `json:"remarks,omitempty"`
}
