package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida de materiales.
const (
	UnitKG    = "KG"
	UnitNOS   = "NOS"
	UnitMETER = "METER"
	UnitLITER = "LITER"
	UnitPCS   = "PCS"
)

// ValidUnit indica si la unidad de medida es una de las soportadas.
func ValidUnit(u string) bool {
	switch u {
	case UnitKG, UnitNOS, UnitMETER, UnitLITER, UnitPCS:
		return true
	}
	return false
}

// Material representa una materia prima o insumo del almacén de planta.
// CurrentStock se mantiene materializado para lecturas rápidas, pero siempre
// es reconstruible sumando los asientos del libro de stock (ver LedgerEntry).
type Material struct {
	ID            string
	Code          string // código único de material
	Name          string
	Category      string
	Unit          string // KG, NOS, METER, LITER, PCS
	OpeningStock  decimal.Decimal
	CurrentStock  decimal.Decimal
	MinStock      decimal.Decimal
	SupplierID    string // proveedor habitual (opcional)
	PurchasePrice decimal.Decimal
	LastUpdated   time.Time
	CreatedAt     time.Time
}
