package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.GRNRepository = (*GRNRepo)(nil)

// GRNRepo implementación del puerto GRNRepository sobre PostgreSQL (usable con
// pool o tx). Los renglones se guardan como JSONB.
type GRNRepo struct {
	q Querier
}

// NewGRNRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGRNRepository(q Querier) *GRNRepo {
	return &GRNRepo{q: q}
}

const grnColumns = `id, number, po_id, status, items, vehicle_no, received_by, created_at, updated_at`

func scanGRN(row pgxScanner) (*entity.GRN, error) {
	var (
		g     entity.GRN
		items []byte
	)
	err := row.Scan(
		&g.ID, &g.Number, &g.POID, &g.Status, &items,
		&g.VehicleNo, &g.ReceivedBy, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &g.Items); err != nil {
		return nil, fmt.Errorf("decode grn items: %w", err)
	}
	return &g, nil
}

// Create persiste una GRN nueva. El número es único.
func (r *GRNRepo) Create(ctx context.Context, g *entity.GRN) error {
	items, err := json.Marshal(g.Items)
	if err != nil {
		return fmt.Errorf("encode grn items: %w", err)
	}
	query := `
		INSERT INTO grns (` + grnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		g.ID, g.Number, g.POID, g.Status, items,
		g.VehicleNo, g.ReceivedBy, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert grn: %w", err)
	}
	return nil
}

// GetByID obtiene una GRN por ID, o nil si no existe.
func (r *GRNRepo) GetByID(ctx context.Context, id string) (*entity.GRN, error) {
	query := `SELECT ` + grnColumns + ` FROM grns WHERE id = $1`
	g, err := scanGRN(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grn: %w", err)
	}
	return g, nil
}

// GetForUpdate obtiene la GRN y bloquea la fila (SELECT FOR UPDATE).
func (r *GRNRepo) GetForUpdate(ctx context.Context, id string) (*entity.GRN, error) {
	query := `SELECT ` + grnColumns + ` FROM grns WHERE id = $1 FOR UPDATE`
	g, err := scanGRN(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grn for update: %w", mapConflict(err))
	}
	return g, nil
}

// ListByPO GRNs de una orden de compra, más antiguas primero.
func (r *GRNRepo) ListByPO(ctx context.Context, poID string) ([]*entity.GRN, error) {
	query := `SELECT ` + grnColumns + ` FROM grns WHERE po_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("list grns by po: %w", err)
	}
	defer rows.Close()

	var out []*entity.GRN
	for rows.Next() {
		g, err := scanGRN(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grn: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// List GRNs por estado (vacío = todas), más recientes primero.
func (r *GRNRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.GRN, error) {
	query := `
		SELECT ` + grnColumns + ` FROM grns
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list grns: %w", err)
	}
	defer rows.Close()

	var out []*entity.GRN
	for rows.Next() {
		g, err := scanGRN(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grn: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Update actualiza una GRN existente.
func (r *GRNRepo) Update(ctx context.Context, g *entity.GRN) error {
	items, err := json.Marshal(g.Items)
	if err != nil {
		return fmt.Errorf("encode grn items: %w", err)
	}
	query := `
		UPDATE grns
		SET status = $2, items = $3, vehicle_no = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, g.ID, g.Status, items, g.VehicleNo, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update grn: %w", mapConflict(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
