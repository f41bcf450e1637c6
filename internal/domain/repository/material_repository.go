package repository

import (
	"context"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// MaterialRepository puerto de persistencia del catálogo de materiales.
// GetForUpdate bloquea la fila del material (escritor único por material):
// todo asiento del libro de stock debe pasar por ese bloqueo.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Material, error)
	Update(ctx context.Context, m *entity.Material) error
}
