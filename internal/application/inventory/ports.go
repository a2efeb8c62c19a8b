package inventory

import (
	"context"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se revierte todo lo escrito; si no, se confirma.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// MovementObserver recibe los movimientos confirmados y las operaciones rechazadas (métricas).
type MovementObserver interface {
	MovementApplied(kind entity.MovementKind, quantity int)
	OperationRejected(operation string, err error)
}

type noopObserver struct{}

func (noopObserver) MovementApplied(entity.MovementKind, int) {}
func (noopObserver) OperationRejected(string, error)          {}

// NoopObserver observer que no hace nada.
var NoopObserver MovementObserver = noopObserver{}
