package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// LedgerRepository puerto del libro de stock (append-only: sin Update/Delete).
type LedgerRepository interface {
	Append(ctx context.Context, e *entity.LedgerEntry) error
	ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByDocument(ctx context.Context, sourceDocRef string) ([]*entity.LedgerEntry, error)
	// SumByMaterial suma todos los deltas del material (reproducción para auditoría).
	SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error)
}
