package memory

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

type catalogRepo struct {
	s *Store
}

func (r *catalogRepo) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *catalogRepo) GetSize(ctx context.Context, id int64) (*entity.Size, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if sz, ok := r.s.sizes[id]; ok {
		cp := *sz
		return &cp, nil
	}
	return nil, nil
}

func (r *catalogRepo) GetWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if wh, ok := r.s.warehouses[id]; ok {
		cp := *wh
		return &cp, nil
	}
	return nil, nil
}

// AddProduct registra p en el catálogo y devuelve su ID (se asigna si viene en cero).
func (s *Store) AddProduct(p entity.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = int64(len(s.products) + 1)
	}
	s.products[p.ID] = &p
	return p.ID
}

// AddSize registra una talla y devuelve su ID.
func (s *Store) AddSize(sz entity.Size) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sz.ID == 0 {
		sz.ID = int64(len(s.sizes) + 1)
	}
	s.sizes[sz.ID] = &sz
	return sz.ID
}

// AddWarehouse registra una bodega y devuelve su ID.
func (s *Store) AddWarehouse(wh entity.Warehouse) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wh.ID == 0 {
		wh.ID = int64(len(s.warehouses) + 1)
	}
	s.warehouses[wh.ID] = &wh
	return wh.ID
}

// AddCustomer registra un cliente y devuelve su ID.
func (s *Store) AddCustomer(c entity.Customer) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = int64(len(s.customers) + 1)
	}
	s.customers[c.ID] = &c
	return c.ID
}
