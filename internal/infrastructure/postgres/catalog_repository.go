package postgres

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de productos, tallas y bodegas.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `
		SELECT id, code, name, category_id, min_stock, base_cost, sale_price, discount, active, created_at, updated_at
		FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.CategoryID, &p.MinStock, &p.BaseCost, &p.SalePrice, &p.Discount, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistence("obtener producto", err)
	}
	return &p, nil
}

func (r *CatalogRepo) GetSize(ctx context.Context, id int64) (*entity.Size, error) {
	var s entity.Size
	err := r.q.QueryRow(ctx, `SELECT id, name, kind, active FROM sizes WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Kind, &s.Active)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistence("obtener talla", err)
	}
	return &s, nil
}

func (r *CatalogRepo) GetWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, `
		SELECT id, name, address, type, active, created_at, updated_at
		FROM warehouses WHERE id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.Address, &w.Type, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistence("obtener bodega", err)
	}
	return &w, nil
}
