package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer cliente de la tienda. Balance es el saldo pendiente por ventas a crédito.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
