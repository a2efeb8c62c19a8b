package sales

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repositorios de venta, stock y kardex.
// Todo lo que fn escriba se revierte si devuelve error.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// IdempotencyGuard evita registrar dos veces la misma venta (doble envío desde el punto de venta).
type IdempotencyGuard interface {
	// Acquire reserva key. Devuelve false si ya estaba reservada o completada.
	Acquire(ctx context.Context, key string) (bool, error)
	// Complete asocia el folio de la venta registrada a key.
	Complete(ctx context.Context, key, folio string) error
	// Lookup devuelve el folio registrado para key; vacío si sigue en proceso o no existe.
	Lookup(ctx context.Context, key string) (string, error)
	// Release libera key cuando la venta falló, para permitir reintentar.
	Release(ctx context.Context, key string) error
}

// ReceiptGenerator genera el ticket de una venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}
