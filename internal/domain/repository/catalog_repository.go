package repository

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

// CatalogRepository consulta de productos, tallas y bodegas (solo lectura).
type CatalogRepository interface {
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	GetSize(ctx context.Context, id int64) (*entity.Size, error)
	GetWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error)
}
