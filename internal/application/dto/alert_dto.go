package dto

import (
	"time"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// AlertResponse salida de una alerta de stock o vencimiento.
type AlertResponse struct {
	ID             string     `json:"id"`
	MaterialID     string     `json:"material_id"`
	Kind           string     `json:"kind"`
	Level          string     `json:"level"`
	Status         string     `json:"status"`
	Message        string     `json:"message"`
	GeneratedAt    time.Time  `json:"generated_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string     `json:"acknowledged_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FromAlert mapea la entidad a su respuesta.
func FromAlert(a *entity.StockAlert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		MaterialID:     a.MaterialID,
		Kind:           a.Kind,
		Level:          a.Level,
		Status:         a.Status,
		Message:        a.Message,
		GeneratedAt:    a.GeneratedAt,
		AcknowledgedAt: a.AcknowledgedAt,
		AcknowledgedBy: a.AcknowledgedBy,
		ResolvedAt:     a.ResolvedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
