package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*ledgerRepo)(nil)

type ledgerRepo struct {
	store *Store
	lock  bool
}

func (r *ledgerRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func (r *ledgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	return r.locked(func() error {
		r.store.entries = append(r.store.entries, *e)
		return nil
	})
}

func (r *ledgerRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.locked(func() error {
		var all []entity.LedgerEntry
		// más recientes primero
		for i := len(r.store.entries) - 1; i >= 0; i-- {
			if r.store.entries[i].MaterialID == materialID {
				all = append(all, r.store.entries[i])
			}
		}
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *ledgerRepo) ListByDocument(ctx context.Context, sourceDocRef string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.locked(func() error {
		var all []entity.LedgerEntry
		for _, e := range r.store.entries {
			if e.SourceDocRef == sourceDocRef {
				all = append(all, e)
			}
		}
		out = paginate(all, 0, 0)
		return nil
	})
	return out, err
}

func (r *ledgerRepo) SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.locked(func() error {
		for _, e := range r.store.entries {
			if e.MaterialID == materialID {
				sum = sum.Add(e.Delta)
			}
		}
		return nil
	})
	return sum, err
}
