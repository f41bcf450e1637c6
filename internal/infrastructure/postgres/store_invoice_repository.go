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

var _ repository.StoreInvoiceRepository = (*StoreInvoiceRepo)(nil)

// StoreInvoiceRepo facturas de almacén sobre PostgreSQL (usable con pool o tx).
// Los renglones se guardan como JSONB.
type StoreInvoiceRepo struct {
	q Querier
}

// NewStoreInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreInvoiceRepository(q Querier) *StoreInvoiceRepo {
	return &StoreInvoiceRepo{q: q}
}

const invoiceColumns = `id, number, grn_id, issued_to, status, items, created_by, issued_at, created_at, updated_at`

func scanInvoice(row pgxScanner) (*entity.StoreInvoice, error) {
	var (
		si    entity.StoreInvoice
		items []byte
	)
	err := row.Scan(
		&si.ID, &si.Number, &si.GRNID, &si.IssuedTo, &si.Status, &items,
		&si.CreatedBy, &si.IssuedAt, &si.CreatedAt, &si.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &si.Items); err != nil {
		return nil, fmt.Errorf("decode invoice items: %w", err)
	}
	return &si, nil
}

// Create persiste una factura nueva. El número es único.
func (r *StoreInvoiceRepo) Create(ctx context.Context, si *entity.StoreInvoice) error {
	items, err := json.Marshal(si.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}
	query := `
		INSERT INTO store_invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		si.ID, si.Number, si.GRNID, si.IssuedTo, si.Status, items,
		si.CreatedBy, si.IssuedAt, si.CreatedAt, si.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID, o nil si no existe.
func (r *StoreInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.StoreInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM store_invoices WHERE id = $1`
	si, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store invoice: %w", err)
	}
	return si, nil
}

// GetForUpdate obtiene la factura y bloquea la fila (SELECT FOR UPDATE).
func (r *StoreInvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.StoreInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM store_invoices WHERE id = $1 FOR UPDATE`
	si, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store invoice for update: %w", mapConflict(err))
	}
	return si, nil
}

// ListByGRN facturas emitidas contra una GRN, más antiguas primero.
func (r *StoreInvoiceRepo) ListByGRN(ctx context.Context, grnID string) ([]*entity.StoreInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM store_invoices WHERE grn_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, grnID)
	if err != nil {
		return nil, fmt.Errorf("list store invoices by grn: %w", err)
	}
	defer rows.Close()

	var out []*entity.StoreInvoice
	for rows.Next() {
		si, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store invoice: %w", err)
		}
		out = append(out, si)
	}
	return out, rows.Err()
}

// List facturas por estado (vacío = todas), más recientes primero.
func (r *StoreInvoiceRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.StoreInvoice, error) {
	query := `
		SELECT ` + invoiceColumns + ` FROM store_invoices
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list store invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.StoreInvoice
	for rows.Next() {
		si, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store invoice: %w", err)
		}
		out = append(out, si)
	}
	return out, rows.Err()
}

// Update actualiza una factura existente.
func (r *StoreInvoiceRepo) Update(ctx context.Context, si *entity.StoreInvoice) error {
	items, err := json.Marshal(si.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}
	query := `
		UPDATE store_invoices
		SET status = $2, items = $3, issued_to = $4, issued_at = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, si.ID, si.Status, items, si.IssuedTo, si.IssuedAt, si.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update store invoice: %w", mapConflict(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
