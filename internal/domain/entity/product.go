package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo (calzado o prenda). El stock vive en StockEntry por talla y bodega.
type Product struct {
	ID         int64
	Code       string // código único de catálogo
	Name       string
	CategoryID *int64
	MinStock   int             // umbral de reposición
	BaseCost   decimal.Decimal // costo base de compra
	SalePrice  decimal.Decimal
	Discount   decimal.Decimal // porcentaje 0-100
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
