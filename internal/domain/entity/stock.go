package entity

import (
	"fmt"
	"strconv"
	"time"
)

// StockKey identifica una posición de stock: producto, talla opcional y bodega opcional.
// Un ID nulo es un valor propio, no un comodín: (p, nil, nil) y (p, nil, 3) son posiciones distintas.
type StockKey struct {
	ProductID   int64
	SizeID      *int64
	WarehouseID *int64
}

// Equal compara dos llaves tratando nil como valor.
func (k StockKey) Equal(o StockKey) bool {
	return k.ProductID == o.ProductID && sameID(k.SizeID, o.SizeID) && sameID(k.WarehouseID, o.WarehouseID)
}

// String rinde la llave para mensajes y como llave de mapas.
func (k StockKey) String() string {
	return fmt.Sprintf("producto=%d talla=%s bodega=%s", k.ProductID, idOrDash(k.SizeID), idOrDash(k.WarehouseID))
}

// WithWarehouse devuelve la misma posición en otra bodega.
func (k StockKey) WithWarehouse(warehouseID int64) StockKey {
	k.WarehouseID = &warehouseID
	return k
}

// Clone copia la llave sin compartir los punteros opcionales.
func (k StockKey) Clone() StockKey {
	if k.SizeID != nil {
		k.SizeID = ID(*k.SizeID)
	}
	if k.WarehouseID != nil {
		k.WarehouseID = ID(*k.WarehouseID)
	}
	return k
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

// ID devuelve un puntero a id; atajo para construir llaves.
func ID(id int64) *int64 {
	return &id
}

// StockEntry es la cantidad actual de una posición. Solo el motor de movimientos la modifica.
type StockEntry struct {
	ID        int64
	Key       StockKey
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone copia la entrada incluyendo los IDs opcionales.
func (e *StockEntry) Clone() *StockEntry {
	c := *e
	c.Key = e.Key.Clone()
	return &c
}
