package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta lotes atómicos dentro de una transacción PostgreSQL.
// Los bloqueos SELECT FOR UPDATE de los repositorios serializan escritores por
// material y por documento; un fallo de serialización o deadlock se traduce a
// domain.ErrConflict para que el caso de uso reintente.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos construye el conjunto de repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Materials:      NewMaterialRepository(q),
		Lots:           NewLotRepository(q),
		Ledger:         NewLedgerRepository(q),
		Alerts:         NewAlertRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		GRNs:           NewGRNRepository(q),
		Inspections:    NewInspectionRepository(q),
		Invoices:       NewStoreInvoiceRepository(q),
		Returns:        NewVendorReturnRepository(q),
		Suppliers:      NewSupplierRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con los repos atados a la tx y hace
// Commit o Rollback. Todo o nada.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return mapConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		if mapped := mapConflict(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
