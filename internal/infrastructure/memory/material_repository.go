package memory

import (
	"context"
	"sort"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*materialRepo)(nil)

type materialRepo struct {
	store *Store
	lock  bool
}

func (r *materialRepo) locked(fn func() error) error {
	if r.lock {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn()
}

func (r *materialRepo) Create(ctx context.Context, m *entity.Material) error {
	return r.locked(func() error {
		if _, ok := r.store.materials[m.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, existing := range r.store.materials {
			if existing.Code == m.Code {
				return domain.ErrDuplicate
			}
		}
		r.store.materials[m.ID] = *m
		return nil
	})
}

func (r *materialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	var out *entity.Material
	err := r.locked(func() error {
		if m, ok := r.store.materials[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *materialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	var out *entity.Material
	err := r.locked(func() error {
		for _, m := range r.store.materials {
			if m.Code == code {
				cp := m
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el lock global del TxRunner ya serializa
// a los escritores.
func (r *materialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *materialRepo) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	var out []*entity.Material
	err := r.locked(func() error {
		all := make([]entity.Material, 0, len(r.store.materials))
		for _, m := range r.store.materials {
			all = append(all, m)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *materialRepo) Update(ctx context.Context, m *entity.Material) error {
	return r.locked(func() error {
		if _, ok := r.store.materials[m.ID]; !ok {
			return domain.ErrNotFound
		}
		r.store.materials[m.ID] = *m
		return nil
	})
}

// paginate aplica limit/offset a un slice ordenado y devuelve punteros a copias.
func paginate[T any](all []T, limit, offset int) []*T {
	if offset >= len(all) {
		return []*T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*T, 0, end-offset)
	for i := offset; i < end; i++ {
		cp := all[i]
		out = append(out, &cp)
	}
	return out
}
