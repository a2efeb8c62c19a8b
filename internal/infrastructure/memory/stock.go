package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

type stockRepo struct {
	t *tx
}

func (r *stockRepo) GetOrCreate(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error) {
	defer r.t.write()()
	s := r.t.s

	k := key.String()
	if id, ok := s.byKey[k]; ok {
		return s.entries[id].Clone(), nil
	}
	s.nextEntryID++
	now := time.Now().UTC()
	e := &entity.StockEntry{ID: s.nextEntryID, Key: key.Clone(), CreatedAt: now, UpdatedAt: now}
	s.entries[e.ID] = e
	s.byKey[k] = e.ID
	r.t.record(func() {
		delete(s.entries, e.ID)
		delete(s.byKey, k)
	})
	return e.Clone(), nil
}

func (r *stockRepo) GetByID(ctx context.Context, id int64) (*entity.StockEntry, error) {
	defer r.t.read()()
	if e, ok := r.t.s.entries[id]; ok {
		return e.Clone(), nil
	}
	return nil, nil
}

// GetByIDForUpdate en memoria equivale a GetByID: la transacción ya tiene el candado global.
func (r *stockRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.StockEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *stockRepo) LockByIDs(ctx context.Context, ids []int64) (map[int64]*entity.StockEntry, error) {
	defer r.t.read()()
	out := make(map[int64]*entity.StockEntry, len(ids))
	for _, id := range ids {
		if e, ok := r.t.s.entries[id]; ok {
			out[id] = e.Clone()
		}
	}
	return out, nil
}

func (r *stockRepo) Find(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error) {
	defer r.t.read()()
	if id, ok := r.t.s.byKey[key.String()]; ok {
		return r.t.s.entries[id].Clone(), nil
	}
	return nil, nil
}

func (r *stockRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.StockEntry, error) {
	defer r.t.read()()
	out := make([]*entity.StockEntry, 0)
	for _, e := range r.t.s.entries {
		if e.Key.ProductID == productID {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stockRepo) SetQuantity(ctx context.Context, id int64, quantity int) error {
	defer r.t.write()()
	e, ok := r.t.s.entries[id]
	if !ok {
		return &domain.PersistenceError{Op: "actualizar stock", Err: fmt.Errorf("registro %d inexistente", id)}
	}
	// Mismo rango que la columna INTEGER con CHECK (quantity >= 0).
	if quantity < 0 || quantity > entity.MaxStockQuantity {
		return &domain.PersistenceError{Op: "actualizar stock", Err: fmt.Errorf("cantidad %d fuera de rango", quantity)}
	}
	prevQty, prevAt := e.Quantity, e.UpdatedAt
	e.Quantity = quantity
	e.UpdatedAt = time.Now().UTC()
	r.t.record(func() {
		e.Quantity = prevQty
		e.UpdatedAt = prevAt
	})
	return nil
}

func (r *stockRepo) ListBelowMinimum(ctx context.Context, warehouseID *int64) ([]repository.LowStockItem, error) {
	defer r.t.read()()
	s := r.t.s

	totals := make(map[int64]int, len(s.products))
	for _, e := range s.entries {
		if warehouseID != nil && (e.Key.WarehouseID == nil || *e.Key.WarehouseID != *warehouseID) {
			continue
		}
		totals[e.Key.ProductID] += e.Quantity
	}
	out := make([]repository.LowStockItem, 0)
	for _, p := range s.products {
		if !p.Active || totals[p.ID] >= p.MinStock {
			continue
		}
		out = append(out, repository.LowStockItem{
			ProductID:    p.ID,
			Code:         p.Code,
			ProductName:  p.Name,
			CurrentStock: totals[p.ID],
			MinStock:     p.MinStock,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].MinStock-out[i].CurrentStock, out[j].MinStock-out[j].CurrentStock
		if di != dj {
			return di > dj
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

// RemoveStockEntry borra una posición por fuera del motor. Solo para simular en pruebas
// un registro eliminado externamente (la anulación lo reporta como faltante).
func (s *Store) RemoveStockEntry(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		delete(s.byKey, e.Key.String())
		delete(s.entries, id)
	}
}
