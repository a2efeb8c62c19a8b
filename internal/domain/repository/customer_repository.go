package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

// CustomerRepository puerto de clientes.
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	// IncreaseBalance suma amount al saldo pendiente. domain.ErrNotFound si el cliente no existe.
	IncreaseBalance(ctx context.Context, id int64, amount decimal.Decimal) error
}
