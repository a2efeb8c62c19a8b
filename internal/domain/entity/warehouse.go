package entity

import "time"

// Tipos de bodega.
const (
	WarehouseTypeStore   = "store"
	WarehouseTypeStorage = "storage"
)

// Warehouse representa una bodega o sucursal donde se almacena inventario.
type Warehouse struct {
	ID        int64
	Name      string
	Address   string
	Type      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
