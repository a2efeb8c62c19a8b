package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/sales"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// La exclusión entre escritores de una misma posición la dan los SELECT ... FOR UPDATE de los repos.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos de stock y kardex atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.inTx(ctx, func(ctx context.Context, q Querier) error {
		return fn(ctx, NewStockRepository(q), NewMovementRepository(q))
	})
}

// RunSale inicia una transacción con repos de inventario, ventas y clientes (CreateSale / VoidSale).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	ctx context.Context,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return r.inTx(ctx, func(ctx context.Context, q Querier) error {
		return fn(ctx, NewStockRepository(q), NewMovementRepository(q), NewSaleRepository(q), NewCustomerRepository(q))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return persistence("commit transaction", err)
	}
	return nil
}
