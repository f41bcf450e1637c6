package repository

import (
	"context"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// AlertRepository puerto de persistencia de alertas de stock.
type AlertRepository interface {
	Create(ctx context.Context, a *entity.StockAlert) error
	Update(ctx context.Context, a *entity.StockAlert) error
	GetByID(ctx context.Context, id string) (*entity.StockAlert, error)
	// GetOpen devuelve la alerta ACTIVE o ACKNOWLEDGED del par (material, tipo), o nil.
	GetOpen(ctx context.Context, materialID, kind string) (*entity.StockAlert, error)
	ListOpen(ctx context.Context, limit, offset int) ([]*entity.StockAlert, error)
	ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockAlert, error)
}
