package repository

import "context"

// Repos conjunto de repositorios atados a una misma transacción.
type Repos struct {
	Materials      MaterialRepository
	Lots           LotRepository
	Ledger         LedgerRepository
	Alerts         AlertRepository
	PurchaseOrders PurchaseOrderRepository
	GRNs           GRNRepository
	Inspections    InspectionRepository
	Invoices       StoreInvoiceRepository
	Returns        VendorReturnRepository
	Suppliers      SupplierRepository
}

// TxRunner ejecuta fn dentro de una transacción del almacén de documentos
// (lote atómico): o se aplican todos los cambios o ninguno. Una colisión de
// escritura concurrente se reporta como domain.ErrConflict y el caso de uso
// decide reintentar releyendo el estado.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
