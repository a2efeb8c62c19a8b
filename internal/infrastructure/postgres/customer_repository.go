package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene un cliente por ID; nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, `
		SELECT id, name, phone, balance, created_at, updated_at
		FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Balance, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, persistence("obtener cliente", err)
	}
	return &c, nil
}

// IncreaseBalance suma amount al saldo en una sola sentencia (sin leer-modificar-escribir).
func (r *CustomerRepo) IncreaseBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE customers SET balance = balance + $2, updated_at = now() WHERE id = $1`, id, amount)
	if err != nil {
		return persistence("actualizar saldo de cliente", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cliente %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
