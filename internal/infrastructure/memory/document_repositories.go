package memory

import (
	"context"
	"sort"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*poRepo)(nil)
	_ repository.GRNRepository           = (*grnRepo)(nil)
	_ repository.InspectionRepository    = (*inspectionRepo)(nil)
	_ repository.StoreInvoiceRepository  = (*invoiceRepo)(nil)
	_ repository.VendorReturnRepository  = (*returnRepo)(nil)
	_ repository.SupplierRepository      = (*supplierRepo)(nil)
)

// ── Órdenes de compra ─────────────────────────────────────────────────────────

type poRepo struct {
	store *Store
	lock  bool
}

func (r *poRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func copyPO(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Items = append([]entity.POItem(nil), po.Items...)
	return po
}

func (r *poRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.locked(func() error {
		if _, ok := r.store.pos[po.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.pos[po.ID] = copyPO(*po)
		return nil
	})
}

func (r *poRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.locked(func() error {
		if po, ok := r.store.pos[id]; ok {
			cp := copyPO(po)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *poRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *poRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.locked(func() error {
		var all []entity.PurchaseOrder
		for _, po := range r.store.pos {
			if status == "" || po.Status == status {
				all = append(all, copyPO(po))
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *poRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.locked(func() error {
		if _, ok := r.store.pos[po.ID]; !ok {
			return domain.ErrNotFound
		}
		r.store.pos[po.ID] = copyPO(*po)
		return nil
	})
}

func (r *poRepo) CountGRNs(ctx context.Context, poID string) (int, error) {
	n := 0
	err := r.locked(func() error {
		for _, g := range r.store.grns {
			if g.POID == poID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// ── Notas de recepción ────────────────────────────────────────────────────────

type grnRepo struct {
	store *Store
	lock  bool
}

func (r *grnRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func copyGRN(g entity.GRN) entity.GRN {
	g.Items = append([]entity.GRNItem(nil), g.Items...)
	return g
}

func (r *grnRepo) Create(ctx context.Context, g *entity.GRN) error {
	return r.locked(func() error {
		if _, ok := r.store.grns[g.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.grns[g.ID] = copyGRN(*g)
		return nil
	})
}

func (r *grnRepo) GetByID(ctx context.Context, id string) (*entity.GRN, error) {
	var out *entity.GRN
	err := r.locked(func() error {
		if g, ok := r.store.grns[id]; ok {
			cp := copyGRN(g)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *grnRepo) GetForUpdate(ctx context.Context, id string) (*entity.GRN, error) {
	return r.GetByID(ctx, id)
}

func (r *grnRepo) ListByPO(ctx context.Context, poID string) ([]*entity.GRN, error) {
	var out []*entity.GRN
	err := r.locked(func() error {
		var all []entity.GRN
		for _, g := range r.store.grns {
			if g.POID == poID {
				all = append(all, copyGRN(g))
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
		out = paginate(all, 0, 0)
		return nil
	})
	return out, err
}

func (r *grnRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.GRN, error) {
	var out []*entity.GRN
	err := r.locked(func() error {
		var all []entity.GRN
		for _, g := range r.store.grns {
			if status == "" || g.Status == status {
				all = append(all, copyGRN(g))
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *grnRepo) Update(ctx context.Context, g *entity.GRN) error {
	return r.locked(func() error {
		if _, ok := r.store.grns[g.ID]; !ok {
			return domain.ErrNotFound
		}
		r.store.grns[g.ID] = copyGRN(*g)
		return nil
	})
}

// ── Inspecciones de calidad ───────────────────────────────────────────────────

type inspectionRepo struct {
	store *Store
	lock  bool
}

func (r *inspectionRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func (r *inspectionRepo) Create(ctx context.Context, qi *entity.QualityInspection) error {
	return r.locked(func() error {
		if _, ok := r.store.inspections[qi.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *qi
		cp.Lines = append([]entity.InspectionLine(nil), qi.Lines...)
		r.store.inspections[qi.ID] = cp
		return nil
	})
}

func (r *inspectionRepo) GetByGRN(ctx context.Context, grnID string) (*entity.QualityInspection, error) {
	var out *entity.QualityInspection
	err := r.locked(func() error {
		for _, qi := range r.store.inspections {
			if qi.GRNID == grnID {
				cp := qi
				cp.Lines = append([]entity.InspectionLine(nil), qi.Lines...)
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// ── Facturas de almacén ───────────────────────────────────────────────────────

type invoiceRepo struct {
	store *Store
	lock  bool
}

func (r *invoiceRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func copyInvoice(si entity.StoreInvoice) entity.StoreInvoice {
	si.Items = append([]entity.InvoiceItem(nil), si.Items...)
	return si
}

func (r *invoiceRepo) Create(ctx context.Context, si *entity.StoreInvoice) error {
	return r.locked(func() error {
		if _, ok := r.store.invoices[si.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.invoices[si.ID] = copyInvoice(*si)
		return nil
	})
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (*entity.StoreInvoice, error) {
	var out *entity.StoreInvoice
	err := r.locked(func() error {
		if si, ok := r.store.invoices[id]; ok {
			cp := copyInvoice(si)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.StoreInvoice, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) ListByGRN(ctx context.Context, grnID string) ([]*entity.StoreInvoice, error) {
	var out []*entity.StoreInvoice
	err := r.locked(func() error {
		var all []entity.StoreInvoice
		for _, si := range r.store.invoices {
			if si.GRNID == grnID {
				all = append(all, copyInvoice(si))
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
		out = paginate(all, 0, 0)
		return nil
	})
	return out, err
}

func (r *invoiceRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.StoreInvoice, error) {
	var out []*entity.StoreInvoice
	err := r.locked(func() error {
		var all []entity.StoreInvoice
		for _, si := range r.store.invoices {
			if status == "" || si.Status == status {
				all = append(all, copyInvoice(si))
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *invoiceRepo) Update(ctx context.Context, si *entity.StoreInvoice) error {
	return r.locked(func() error {
		if _, ok := r.store.invoices[si.ID]; !ok {
			return domain.ErrNotFound
		}
		r.store.invoices[si.ID] = copyInvoice(*si)
		return nil
	})
}

// ── Devoluciones a proveedor ──────────────────────────────────────────────────

type returnRepo struct {
	store *Store
	lock  bool
}

func (r *returnRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func copyReturn(vr entity.VendorReturn) entity.VendorReturn {
	vr.Items = append([]entity.ReturnItem(nil), vr.Items...)
	return vr
}

func (r *returnRepo) Create(ctx context.Context, vr *entity.VendorReturn) error {
	return r.locked(func() error {
		if _, ok := r.store.returns[vr.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.returns[vr.ID] = copyReturn(*vr)
		return nil
	})
}

func (r *returnRepo) GetByID(ctx context.Context, id string) (*entity.VendorReturn, error) {
	var out *entity.VendorReturn
	err := r.locked(func() error {
		if vr, ok := r.store.returns[id]; ok {
			cp := copyReturn(vr)
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *returnRepo) GetForUpdate(ctx context.Context, id string) (*entity.VendorReturn, error) {
	return r.GetByID(ctx, id)
}

func (r *returnRepo) ListByGRN(ctx context.Context, grnID string) ([]*entity.VendorReturn, error) {
	var out []*entity.VendorReturn
	err := r.locked(func() error {
		var all []entity.VendorReturn
		for _, vr := range r.store.returns {
			if vr.GRNID == grnID {
				all = append(all, copyReturn(vr))
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
		out = paginate(all, 0, 0)
		return nil
	})
	return out, err
}

func (r *returnRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.VendorReturn, error) {
	var out []*entity.VendorReturn
	err := r.locked(func() error {
		var all []entity.VendorReturn
		for _, vr := range r.store.returns {
			if status == "" || vr.Status == status {
				all = append(all, copyReturn(vr))
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *returnRepo) Update(ctx context.Context, vr *entity.VendorReturn) error {
	return r.locked(func() error {
		if _, ok := r.store.returns[vr.ID]; !ok {
			return domain.ErrNotFound
		}
		r.store.returns[vr.ID] = copyReturn(*vr)
		return nil
	})
}

// ── Proveedores ───────────────────────────────────────────────────────────────

type supplierRepo struct {
	store *Store
	lock  bool
}

func (r *supplierRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func (r *supplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return r.locked(func() error {
		if _, ok := r.store.suppliers[s.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.suppliers[s.ID] = *s
		return nil
	})
}

func (r *supplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.locked(func() error {
		if s, ok := r.store.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *supplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.locked(func() error {
		all := make([]entity.Supplier, 0, len(r.store.suppliers))
		for _, s := range r.store.suppliers {
			all = append(all, s)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}
