package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

// MovementSpec movimiento a aplicar sobre una posición ya bloqueada por la transacción en curso.
type MovementSpec struct {
	Kind      entity.MovementKind
	Quantity  int
	Reason    string
	Reference string
	UserID    *int64
	UnitCost  *decimal.Decimal
	At        time.Time
}

// ApplyDebit descuenta spec.Quantity de entry y agrega el registro al kardex.
// Devuelve *domain.InsufficientStockError sin escribir nada si el stock no alcanza.
func ApplyDebit(ctx context.Context, stockRepo repository.StockRepository, movRepo repository.MovementRepository, entry *entity.StockEntry, spec MovementSpec) (*entity.Movement, error) {
	if spec.Kind.Sign() != -1 {
		return nil, domain.ErrInvalidInput
	}
	return apply(ctx, stockRepo, movRepo, entry, spec)
}

// ApplyCredit suma spec.Quantity a entry y agrega el registro al kardex.
func ApplyCredit(ctx context.Context, stockRepo repository.StockRepository, movRepo repository.MovementRepository, entry *entity.StockEntry, spec MovementSpec) (*entity.Movement, error) {
	if spec.Kind.Sign() != 1 {
		return nil, domain.ErrInvalidInput
	}
	return apply(ctx, stockRepo, movRepo, entry, spec)
}

// apply es el único lugar que llama SetQuantity; cada escritura va acompañada de un Append.
// entry.Quantity queda actualizado para que el llamador pueda encadenar movimientos.
func apply(ctx context.Context, stockRepo repository.StockRepository, movRepo repository.MovementRepository, entry *entity.StockEntry, spec MovementSpec) (*entity.Movement, error) {
	if !entity.ValidMovementQuantity(spec.Quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	before := entry.Quantity
	after := before + spec.Kind.Sign()*spec.Quantity
	if after > entity.MaxStockQuantity {
		return nil, fmt.Errorf("%s quedaría en %d unidades, máximo %d: %w",
			entry.Key, after, entity.MaxStockQuantity, domain.ErrInvalidQuantity)
	}
	if after < 0 {
		return nil, &domain.InsufficientStockError{
			Position:  entry.Key,
			EntryID:   entry.ID,
			Requested: spec.Quantity,
			Available: before,
		}
	}

	if err := stockRepo.SetQuantity(ctx, entry.ID, after); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		Kind:           spec.Kind,
		StockEntryID:   entry.ID,
		Key:            entry.Key,
		Quantity:       spec.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         entity.ReasonWithSuffix(spec.Reason, ""),
		Reference:      spec.Reference,
		UserID:         spec.UserID,
		UnitCost:       spec.UnitCost,
		CreatedAt:      spec.At,
	}
	if err := movRepo.Append(ctx, mov); err != nil {
		return nil, err
	}
	entry.Quantity = after
	entry.UpdatedAt = spec.At
	return mov, nil
}

// LockPosition obtiene (creando si hace falta) y bloquea la posición de key.
func LockPosition(ctx context.Context, stockRepo repository.StockRepository, key entity.StockKey) (*entity.StockEntry, error) {
	entry, err := stockRepo.GetOrCreate(ctx, key)
	if err != nil {
		return nil, err
	}
	locked, err := stockRepo.GetByIDForUpdate(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, &domain.StockEntryMissingError{EntryID: entry.ID}
	}
	return locked, nil
}
