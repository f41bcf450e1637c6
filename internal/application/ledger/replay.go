package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre el libro de stock.
type QueryUseCase struct {
	materialRepo repository.MaterialRepository
	ledgerRepo   repository.LedgerRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(materialRepo repository.MaterialRepository, ledgerRepo repository.LedgerRepository) *QueryUseCase {
	return &QueryUseCase{materialRepo: materialRepo, ledgerRepo: ledgerRepo}
}

// ReplayResult comparación entre el stock materializado y el reproducido.
type ReplayResult struct {
	MaterialID   string          `json:"material_id"`
	Materialized decimal.Decimal `json:"materialized"`
	Replayed     decimal.Decimal `json:"replayed"`
	Consistent   bool            `json:"consistent"`
}

// Replay reconstruye el stock del material sumando todos sus asientos desde
// cero y lo compara contra el valor materializado. La ley de reproducción
// exige que coincidan exactamente; una divergencia es un hallazgo de auditoría.
func (uc *QueryUseCase) Replay(ctx context.Context, materialID string) (*ReplayResult, error) {
	m, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.ledgerRepo.SumByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	return &ReplayResult{
		MaterialID:   materialID,
		Materialized: m.CurrentStock,
		Replayed:     sum,
		Consistent:   m.CurrentStock.Equal(sum),
	}, nil
}

// ListByMaterial asientos de un material, más recientes primero.
func (uc *QueryUseCase) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.ListByMaterial(ctx, materialID, limit, offset)
}

// ListByDocument asientos generados por un documento.
func (uc *QueryUseCase) ListByDocument(ctx context.Context, sourceDocRef string) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.ListByDocument(ctx, sourceDocRef)
}
