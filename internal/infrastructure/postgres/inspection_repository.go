package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.InspectionRepository = (*InspectionRepo)(nil)

// InspectionRepo actas de inspección de calidad sobre PostgreSQL (usable con
// pool o tx). Las líneas se guardan como JSONB; las actas son inmutables.
type InspectionRepo struct {
	q Querier
}

// NewInspectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInspectionRepository(q Querier) *InspectionRepo {
	return &InspectionRepo{q: q}
}

const inspectionColumns = `id, grn_id, result, inspector, notes, lines, inspected_at`

// Create persiste un acta de inspección.
func (r *InspectionRepo) Create(ctx context.Context, qi *entity.QualityInspection) error {
	lines, err := json.Marshal(qi.Lines)
	if err != nil {
		return fmt.Errorf("encode inspection lines: %w", err)
	}
	query := `
		INSERT INTO quality_inspections (` + inspectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(ctx, query,
		qi.ID, qi.GRNID, qi.Result, qi.Inspector, qi.Notes, lines, qi.InspectedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inspection: %w", err)
	}
	return nil
}

// GetByGRN obtiene el acta de una GRN, o nil si aún no se inspecciona.
func (r *InspectionRepo) GetByGRN(ctx context.Context, grnID string) (*entity.QualityInspection, error) {
	query := `
		SELECT ` + inspectionColumns + ` FROM quality_inspections
		WHERE grn_id = $1
		ORDER BY inspected_at DESC
		LIMIT 1`
	var (
		qi    entity.QualityInspection
		lines []byte
	)
	err := r.q.QueryRow(ctx, query, grnID).Scan(
		&qi.ID, &qi.GRNID, &qi.Result, &qi.Inspector, &qi.Notes, &lines, &qi.InspectedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inspection by grn: %w", err)
	}
	if err := json.Unmarshal(lines, &qi.Lines); err != nil {
		return nil, fmt.Errorf("decode inspection lines: %w", err)
	}
	return &qi, nil
}
