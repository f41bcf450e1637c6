package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del libro de stock sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no hay UPDATE ni DELETE de asientos.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, material_id, lot_id, delta, reason, source_doc_ref, notes, created_at, created_by`

func scanLedgerEntry(row pgxScanner) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := row.Scan(
		&e.ID, &e.MaterialID, &e.LotID, &e.Delta, &e.Reason,
		&e.SourceDocRef, &e.Notes, &e.CreatedAt, &e.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Append agrega un asiento al libro.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.MaterialID, e.LotID, e.Delta, e.Reason,
		e.SourceDocRef, e.Notes, e.CreatedAt, e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", mapConflict(err))
	}
	return nil
}

// ListByMaterial asientos de un material, más recientes primero.
func (r *LedgerRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE material_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, materialID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger by material: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListByDocument asientos generados por un documento, en orden de aplicación.
func (r *LedgerRepo) ListByDocument(ctx context.Context, sourceDocRef string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE source_doc_ref = $1
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, sourceDocRef)
	if err != nil {
		return nil, fmt.Errorf("list ledger by document: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SumByMaterial suma todos los deltas del material (reproducción del libro).
func (r *LedgerRepo) SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(delta), 0) FROM ledger_entries WHERE material_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, materialID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum ledger by material: %w", err)
	}
	return sum, nil
}
