package memory

import (
	"context"
	"sort"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*alertRepo)(nil)

type alertRepo struct {
	store *Store
	lock  bool
}

func (r *alertRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func isOpen(status string) bool {
	return status == entity.AlertStatusActive || status == entity.AlertStatusAcknowledged
}

func (r *alertRepo) Create(ctx context.Context, a *entity.StockAlert) error {
	return r.locked(func() error {
		if _, ok := r.store.alerts[a.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.alerts[a.ID] = *a
		return nil
	})
}

func (r *alertRepo) Update(ctx context.Context, a *entity.StockAlert) error {
	return r.locked(func() error {
		if _, ok := r.store.alerts[a.ID]; !ok {
			return domain.ErrNotFound
		}
		r.store.alerts[a.ID] = *a
		return nil
	})
}

func (r *alertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	var out *entity.StockAlert
	err := r.locked(func() error {
		if a, ok := r.store.alerts[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *alertRepo) GetOpen(ctx context.Context, materialID, kind string) (*entity.StockAlert, error) {
	var out *entity.StockAlert
	err := r.locked(func() error {
		for _, a := range r.store.alerts {
			if a.MaterialID == materialID && a.Kind == kind && isOpen(a.Status) {
				cp := a
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *alertRepo) ListOpen(ctx context.Context, limit, offset int) ([]*entity.StockAlert, error) {
	return r.list(func(a entity.StockAlert) bool { return isOpen(a.Status) }, limit, offset)
}

func (r *alertRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.StockAlert, error) {
	return r.list(func(a entity.StockAlert) bool { return a.MaterialID == materialID }, limit, offset)
}

func (r *alertRepo) list(match func(entity.StockAlert) bool, limit, offset int) ([]*entity.StockAlert, error) {
	var out []*entity.StockAlert
	err := r.locked(func() error {
		var all []entity.StockAlert
		for _, a := range r.store.alerts {
			if match(a) {
				all = append(all, a)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].GeneratedAt.After(all[j].GeneratedAt) })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}
