package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType contado o crédito.
type SaleType string

const (
	SaleTypeCash   SaleType = "cash"
	SaleTypeCredit SaleType = "credit"
)

// Valid indica si t es un tipo de venta conocido.
func (t SaleType) Valid() bool {
	return t == SaleTypeCash || t == SaleTypeCredit
}

// Sale encabezado de venta. Se elimina al anularse; el kardex conserva los débitos y créditos.
type Sale struct {
	ID                int64
	Folio             string
	Total             decimal.Decimal
	SoldAt            time.Time
	SellerID          *int64
	PaymentMethodID   int64
	CustomerID        *int64
	Type              SaleType
	InstallmentCount  int
	InstallmentAmount *decimal.Decimal
	Lines             []*SaleLineItem
}

// SaleLineItem línea de venta; descuenta Quantity del StockEntry referenciado.
type SaleLineItem struct {
	ID           int64
	SaleID       int64
	ProductID    int64
	StockEntryID int64
	Quantity     int
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal // porcentaje 0-100
	Subtotal     decimal.Decimal
}
