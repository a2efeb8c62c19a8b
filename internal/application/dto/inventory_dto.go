package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryRequest body para POST /api/inventory/entries. size_id / warehouse_id nulos son una posición propia.
type EntryRequest struct {
	ProductID   int64            `json:"product_id" validate:"required,gt=0"`
	SizeID      *int64           `json:"size_id,omitempty" validate:"omitempty,gt=0"`
	WarehouseID *int64           `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	Quantity    int              `json:"quantity" validate:"lte=1000000"`
	Reason      string           `json:"reason,omitempty" validate:"max=255"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments.
type AdjustmentRequest struct {
	Type        string `json:"type" validate:"required,oneof=entrada salida ajuste"`
	ProductID   int64  `json:"product_id" validate:"required,gt=0"`
	SizeID      *int64 `json:"size_id,omitempty" validate:"omitempty,gt=0"`
	WarehouseID *int64 `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	Quantity    int    `json:"quantity" validate:"lte=1000000"`
	Reason      string `json:"reason,omitempty" validate:"max=255"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       int64  `json:"product_id" validate:"required,gt=0"`
	SizeID          *int64 `json:"size_id,omitempty" validate:"omitempty,gt=0"`
	FromWarehouseID int64  `json:"from_warehouse_id" validate:"required,gt=0"`
	ToWarehouseID   int64  `json:"to_warehouse_id" validate:"required,gt=0"`
	Quantity        int    `json:"quantity" validate:"lte=1000000"`
	Reason          string `json:"reason,omitempty" validate:"max=255"`
}

// StockEntryDTO posición de stock.
type StockEntryDTO struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	SizeID      *int64    `json:"size_id"`
	WarehouseID *int64    `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovementDTO registro del kardex.
type MovementDTO struct {
	ID             int64            `json:"id"`
	Kind           string           `json:"kind"`
	StockEntryID   int64            `json:"stock_entry_id"`
	ProductID      int64            `json:"product_id"`
	SizeID         *int64           `json:"size_id"`
	WarehouseID    *int64           `json:"warehouse_id"`
	Quantity       int              `json:"quantity"`
	QuantityBefore int              `json:"quantity_before"`
	QuantityAfter  int              `json:"quantity_after"`
	Reason         string           `json:"reason"`
	Reference      string           `json:"reference"`
	UserID         *int64           `json:"user_id"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// MovementResultResponse respuesta de entrada o ajuste.
type MovementResultResponse struct {
	Entry    StockEntryDTO `json:"entry"`
	Movement MovementDTO   `json:"movement"`
}

// TransferResponse respuesta de traspaso: ambas posiciones y ambos registros.
type TransferResponse struct {
	Reference   string        `json:"reference"`
	Origin      StockEntryDTO `json:"origin"`
	Destination StockEntryDTO `json:"destination"`
	Debit       MovementDTO   `json:"debit"`
	Credit      MovementDTO   `json:"credit"`
}

// LowStockDTO producto bajo su mínimo con la cantidad sugerida de reposición.
type LowStockDTO struct {
	ProductID    int64  `json:"product_id"`
	Code         string `json:"code"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	Shortfall    int    `json:"shortfall"`
	SuggestedQty int    `json:"suggested_qty"` // ceil(1.5 × mínimo) - actual
}
