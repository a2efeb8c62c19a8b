package repository

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas.
type SaleRepository interface {
	// Create inserta el encabezado y asigna ID.
	Create(ctx context.Context, s *entity.Sale) error
	CreateLineItem(ctx context.Context, l *entity.SaleLineItem) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetByFolio(ctx context.Context, folio string) (*entity.Sale, error)
	ListLineItems(ctx context.Context, saleID int64) ([]*entity.SaleLineItem, error)
	DeleteLineItems(ctx context.Context, saleID int64) error
	Delete(ctx context.Context, id int64) error
}
