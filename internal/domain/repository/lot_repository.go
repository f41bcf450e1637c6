package repository

import (
	"context"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// LotRepository puerto de persistencia de lotes vencibles.
type LotRepository interface {
	Create(ctx context.Context, l *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	ListByMaterial(ctx context.Context, materialID string) ([]*entity.Lot, error)
	// ListOpen lotes no consumidos (para el barrido de vencimientos).
	ListOpen(ctx context.Context, limit, offset int) ([]*entity.Lot, error)
	Update(ctx context.Context, l *entity.Lot) error
}
