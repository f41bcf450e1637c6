package memory

import (
	"context"
	"sort"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.LotRepository = (*lotRepo)(nil)

type lotRepo struct {
	store *Store
	lock  bool
}

func (r *lotRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func (r *lotRepo) Create(ctx context.Context, l *entity.Lot) error {
	return r.locked(func() error {
		if _, ok := r.store.lots[l.ID]; ok {
			return domain.ErrDuplicate
		}
		r.store.lots[l.ID] = *l
		return nil
	})
}

func (r *lotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.locked(func() error {
		if l, ok := r.store.lots[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *lotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, id)
}

func (r *lotRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.locked(func() error {
		var all []entity.Lot
		for _, l := range r.store.lots {
			if l.MaterialID == materialID {
				all = append(all, l)
			}
		}
		// FIFO por fecha de vencimiento
		sort.Slice(all, func(i, j int) bool { return all[i].ExpiryDate.Before(all[j].ExpiryDate) })
		out = paginate(all, 0, 0)
		return nil
	})
	return out, err
}

func (r *lotRepo) ListOpen(ctx context.Context, limit, offset int) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.locked(func() error {
		var all []entity.Lot
		for _, l := range r.store.lots {
			if !l.Consumed {
				all = append(all, l)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ExpiryDate.Before(all[j].ExpiryDate) })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *lotRepo) Update(ctx context.Context, l *entity.Lot) error {
	return r.locked(func() error {
		if _, ok := r.store.lots[l.ID]; !ok {
			return domain.ErrNotFound
		}
		r.store.lots[l.ID] = *l
		return nil
	})
}
