package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta: vende de un registro de stock ya resuelto.
type SaleItemRequest struct {
	StockEntryID int64           `json:"stock_entry_id" validate:"required,gt=0"`
	Quantity     int             `json:"quantity" validate:"lte=1000000"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"` // porcentaje 0-100
}

// CreateSaleRequest body para POST /api/sales. El vendedor es el usuario del token.
type CreateSaleRequest struct {
	Folio             string            `json:"folio,omitempty" validate:"max=40"`
	PaymentMethodID   int64             `json:"payment_method_id" validate:"required,gt=0"`
	CustomerID        *int64            `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	Type              string            `json:"type" validate:"omitempty,oneof=cash credit"`
	InstallmentCount  int               `json:"installment_count,omitempty" validate:"min=0"`
	InstallmentAmount *decimal.Decimal  `json:"installment_amount,omitempty"`
	Items             []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleLineDTO línea de venta persistida.
type SaleLineDTO struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	StockEntryID int64           `json:"stock_entry_id"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con sus líneas.
type SaleResponse struct {
	ID                int64            `json:"id"`
	Folio             string           `json:"folio"`
	Total             decimal.Decimal  `json:"total"`
	SoldAt            time.Time        `json:"sold_at"`
	SellerID          *int64           `json:"seller_id"`
	PaymentMethodID   int64            `json:"payment_method_id"`
	CustomerID        *int64           `json:"customer_id"`
	Type              string           `json:"type"`
	InstallmentCount  int              `json:"installment_count"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
	Lines             []SaleLineDTO    `json:"lines"`
}

// VoidFailureDTO línea que no se pudo reintegrar porque su registro de stock ya no existe.
type VoidFailureDTO struct {
	LineID       int64 `json:"line_id"`
	StockEntryID int64 `json:"stock_entry_id"`
}

// VoidSaleResponse resultado de DELETE /api/sales/:id.
type VoidSaleResponse struct {
	SaleID   int64            `json:"sale_id"`
	Folio    string           `json:"folio"`
	Restored []MovementDTO    `json:"restored"`
	Failures []VoidFailureDTO `json:"failures,omitempty"`
	Empty    bool             `json:"empty"`
}
