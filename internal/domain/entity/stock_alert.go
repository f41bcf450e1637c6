package entity

import "time"

// Tipos de alerta. A lo sumo una alerta ACTIVE por (material, tipo).
const (
	AlertKindStockLevel = "STOCK_LEVEL"
	AlertKindExpiry     = "EXPIRY"
)

// Niveles de alerta.
const (
	AlertLevelInfo     = "INFO"
	AlertLevelWarning  = "WARNING"
	AlertLevelCritical = "CRITICAL"
	AlertLevelOut      = "OUT"
)

// Estados de una alerta.
const (
	AlertStatusActive       = "ACTIVE"
	AlertStatusAcknowledged = "ACKNOWLEDGED"
	AlertStatusResolved     = "RESOLVED"
)

// StockAlert alerta derivada del estado de stock o del vencimiento de lotes.
// Se regenera con semántica de upsert: reevaluar con las mismas entradas
// actualiza el registro existente en vez de duplicarlo.
type StockAlert struct {
	ID             string
	MaterialID     string
	Kind           string // STOCK_LEVEL, EXPIRY
	Level          string // INFO, WARNING, CRITICAL, OUT
	Status         string // ACTIVE, ACKNOWLEDGED, RESOLVED
	Message        string
	GeneratedAt    time.Time
	AcknowledgedAt *time.Time
	AcknowledgedBy string
	ResolvedAt     *time.Time
	UpdatedAt      time.Time
}
