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

var _ repository.VendorReturnRepository = (*VendorReturnRepo)(nil)

// VendorReturnRepo devoluciones a proveedor sobre PostgreSQL (usable con pool
// o tx). Los renglones se guardan como JSONB.
type VendorReturnRepo struct {
	q Querier
}

// NewVendorReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorReturnRepository(q Querier) *VendorReturnRepo {
	return &VendorReturnRepo{q: q}
}

const returnColumns = `id, number, grn_id, supplier_id, status, items, reason, created_by, created_at, updated_at`

func scanReturn(row pgxScanner) (*entity.VendorReturn, error) {
	var (
		vr    entity.VendorReturn
		items []byte
	)
	err := row.Scan(
		&vr.ID, &vr.Number, &vr.GRNID, &vr.SupplierID, &vr.Status, &items,
		&vr.Reason, &vr.CreatedBy, &vr.CreatedAt, &vr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &vr.Items); err != nil {
		return nil, fmt.Errorf("decode return items: %w", err)
	}
	return &vr, nil
}

// Create persiste una devolución nueva. El número es único.
func (r *VendorReturnRepo) Create(ctx context.Context, vr *entity.VendorReturn) error {
	items, err := json.Marshal(vr.Items)
	if err != nil {
		return fmt.Errorf("encode return items: %w", err)
	}
	query := `
		INSERT INTO vendor_returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		vr.ID, vr.Number, vr.GRNID, vr.SupplierID, vr.Status, items,
		vr.Reason, vr.CreatedBy, vr.CreatedAt, vr.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor return: %w", err)
	}
	return nil
}

// GetByID obtiene una devolución por ID, o nil si no existe.
func (r *VendorReturnRepo) GetByID(ctx context.Context, id string) (*entity.VendorReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM vendor_returns WHERE id = $1`
	vr, err := scanReturn(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor return: %w", err)
	}
	return vr, nil
}

// GetForUpdate obtiene la devolución y bloquea la fila (SELECT FOR UPDATE).
func (r *VendorReturnRepo) GetForUpdate(ctx context.Context, id string) (*entity.VendorReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM vendor_returns WHERE id = $1 FOR UPDATE`
	vr, err := scanReturn(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor return for update: %w", mapConflict(err))
	}
	return vr, nil
}

// ListByGRN devoluciones registradas contra una GRN, más antiguas primero.
func (r *VendorReturnRepo) ListByGRN(ctx context.Context, grnID string) ([]*entity.VendorReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM vendor_returns WHERE grn_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, grnID)
	if err != nil {
		return nil, fmt.Errorf("list vendor returns by grn: %w", err)
	}
	defer rows.Close()

	var out []*entity.VendorReturn
	for rows.Next() {
		vr, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor return: %w", err)
		}
		out = append(out, vr)
	}
	return out, rows.Err()
}

// List devoluciones por estado (vacío = todas), más recientes primero.
func (r *VendorReturnRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.VendorReturn, error) {
	query := `
		SELECT ` + returnColumns + ` FROM vendor_returns
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendor returns: %w", err)
	}
	defer rows.Close()

	var out []*entity.VendorReturn
	for rows.Next() {
		vr, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor return: %w", err)
		}
		out = append(out, vr)
	}
	return out, rows.Err()
}

// Update actualiza una devolución existente.
func (r *VendorReturnRepo) Update(ctx context.Context, vr *entity.VendorReturn) error {
	items, err := json.Marshal(vr.Items)
	if err != nil {
		return fmt.Errorf("encode return items: %w", err)
	}
	query := `
		UPDATE vendor_returns
		SET status = $2, items = $3, reason = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, vr.ID, vr.Status, items, vr.Reason, vr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update vendor return: %w", mapConflict(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
