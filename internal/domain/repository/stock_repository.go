package repository

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

// LowStockItem producto cuya existencia sumada está por debajo de su mínimo.
type LowStockItem struct {
	ProductID    int64
	Code         string
	ProductName  string
	CurrentStock int
	MinStock     int
}

// StockRepository puerto del almacén de posiciones de stock.
// Las búsquedas devuelven (nil, nil) cuando no existe el registro.
// Las variantes ForUpdate/Lock solo tienen efecto dentro de una transacción (TxRunner).
type StockRepository interface {
	// GetOrCreate devuelve la posición de key creándola en cero si no existe.
	// Con creaciones concurrentes gana la primera y todas reciben el mismo registro.
	GetOrCreate(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error)
	GetByID(ctx context.Context, id int64) (*entity.StockEntry, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.StockEntry, error)
	// LockByIDs bloquea varias filas en orden ascendente de id. Los ids inexistentes no aparecen en el mapa.
	LockByIDs(ctx context.Context, ids []int64) (map[int64]*entity.StockEntry, error)
	Find(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.StockEntry, error)
	// SetQuantity escribe la cantidad sin validar; solo el motor de movimientos la usa.
	SetQuantity(ctx context.Context, id int64, quantity int) error

	// ListBelowMinimum devuelve los productos activos bajo su mínimo, mayor déficit primero.
	// warehouseID nil considera todas las bodegas.
	ListBelowMinimum(ctx context.Context, warehouseID *int64) ([]LowStockItem, error)
}
