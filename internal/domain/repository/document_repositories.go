package repository

import (
	"context"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// Puertos de persistencia de los documentos del flujo de abastecimiento.
// GetForUpdate bloquea el documento: las transiciones de estado se serializan
// por documento, igual que los asientos por material.

// PurchaseOrderRepository órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	// CountGRNs cantidad de GRNs que referencian la orden (veta la cancelación).
	CountGRNs(ctx context.Context, poID string) (int, error)
}

// GRNRepository notas de recepción.
type GRNRepository interface {
	Create(ctx context.Context, g *entity.GRN) error
	GetByID(ctx context.Context, id string) (*entity.GRN, error)
	GetForUpdate(ctx context.Context, id string) (*entity.GRN, error)
	ListByPO(ctx context.Context, poID string) ([]*entity.GRN, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.GRN, error)
	Update(ctx context.Context, g *entity.GRN) error
}

// InspectionRepository actas de inspección de calidad.
type InspectionRepository interface {
	Create(ctx context.Context, qi *entity.QualityInspection) error
	GetByGRN(ctx context.Context, grnID string) (*entity.QualityInspection, error)
}

// StoreInvoiceRepository facturas de almacén.
type StoreInvoiceRepository interface {
	Create(ctx context.Context, si *entity.StoreInvoice) error
	GetByID(ctx context.Context, id string) (*entity.StoreInvoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StoreInvoice, error)
	ListByGRN(ctx context.Context, grnID string) ([]*entity.StoreInvoice, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.StoreInvoice, error)
	Update(ctx context.Context, si *entity.StoreInvoice) error
}

// VendorReturnRepository devoluciones a proveedor.
type VendorReturnRepository interface {
	Create(ctx context.Context, vr *entity.VendorReturn) error
	GetByID(ctx context.Context, id string) (*entity.VendorReturn, error)
	GetForUpdate(ctx context.Context, id string) (*entity.VendorReturn, error)
	ListByGRN(ctx context.Context, grnID string) ([]*entity.VendorReturn, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.VendorReturn, error)
	Update(ctx context.Context, vr *entity.VendorReturn) error
}
