package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

// Motivos por defecto cuando el usuario no captura uno.
const (
	DefaultEntryReason      = "entrada manual"
	DefaultAdjustmentReason = "ajuste de inventario"
	DefaultTransferReason   = "traspaso entre bodegas"
)

// AdjustmentKind tipo de ajuste capturado en el catálogo.
type AdjustmentKind string

const (
	AdjustmentKindIn     AdjustmentKind = "entrada"
	AdjustmentKindOut    AdjustmentKind = "salida"
	AdjustmentKindAdjust AdjustmentKind = "ajuste"
)

// movementKind traduce el ajuste al tipo de kardex; "ajuste" siempre suma.
func (k AdjustmentKind) movementKind() (entity.MovementKind, bool) {
	switch k {
	case AdjustmentKindIn, AdjustmentKindAdjust:
		return entity.MovementKindAdjustmentIn, true
	case AdjustmentKindOut:
		return entity.MovementKindAdjustmentOut, true
	default:
		return "", false
	}
}

// EntryInput entrada de mercancía a una posición.
type EntryInput struct {
	ProductID   int64
	SizeID      *int64
	WarehouseID *int64
	Quantity    int
	Reason      string
	UnitCost    *decimal.Decimal
	UserID      *int64
}

// AdjustmentInput ajuste manual de una posición.
type AdjustmentInput struct {
	Kind        AdjustmentKind
	ProductID   int64
	SizeID      *int64
	WarehouseID *int64
	Quantity    int
	Reason      string
	UserID      *int64
}

// TransferInput traspaso de una posición entre dos bodegas (misma talla).
type TransferInput struct {
	ProductID              int64
	SizeID                 *int64
	OriginWarehouseID      int64
	DestinationWarehouseID int64
	Quantity               int
	Reason                 string
	UserID                 *int64
}

// MovementResult posición resultante y registro de kardex de una entrada o ajuste.
type MovementResult struct {
	Entry    *entity.StockEntry
	Movement *entity.Movement
}

// TransferResult ambas posiciones y ambos registros (comparten Reference).
type TransferResult struct {
	Origin      *entity.StockEntry
	Destination *entity.StockEntry
	Debit       *entity.Movement
	Credit      *entity.Movement
}

// RegisterMovementUseCase registra entradas, ajustes y traspasos de forma transaccional:
// cada operación bloquea sus filas (SELECT ... FOR UPDATE), escribe stock y kardex y hace Commit o Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	catalog  repository.CatalogRepository
	observer MovementObserver
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. observer puede ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	catalog repository.CatalogRepository,
	observer MovementObserver,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if observer == nil {
		observer = NoopObserver
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		catalog:  catalog,
		observer: observer,
		log:      log.Component("inventory"),
		now:      time.Now,
	}
}

// RegisterEntry suma mercancía a la posición (creándola si no existe) y registra un ENTRY.
func (uc *RegisterMovementUseCase) RegisterEntry(ctx context.Context, in EntryInput) (*MovementResult, error) {
	key := entity.StockKey{ProductID: in.ProductID, SizeID: in.SizeID, WarehouseID: in.WarehouseID}
	spec := MovementSpec{
		Kind:      entity.MovementKindEntry,
		Quantity:  in.Quantity,
		Reason:    reasonOr(in.Reason, DefaultEntryReason),
		Reference: uuid.NewString(),
		UserID:    in.UserID,
		UnitCost:  in.UnitCost,
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, uc.reject("entry", fmt.Errorf("costo unitario negativo: %w", domain.ErrInvalidInput))
	}
	res, err := uc.applySingle(ctx, key, spec)
	if err != nil {
		return nil, uc.reject("entry", err)
	}
	return res, nil
}

// RegisterAdjustment aplica un ajuste. "salida" falla con stock insuficiente sin escribir nada.
func (uc *RegisterMovementUseCase) RegisterAdjustment(ctx context.Context, in AdjustmentInput) (*MovementResult, error) {
	kind, ok := in.Kind.movementKind()
	if !ok {
		return nil, uc.reject("adjustment", fmt.Errorf("tipo de ajuste %q: %w", in.Kind, domain.ErrInvalidInput))
	}
	key := entity.StockKey{ProductID: in.ProductID, SizeID: in.SizeID, WarehouseID: in.WarehouseID}
	spec := MovementSpec{
		Kind:      kind,
		Quantity:  in.Quantity,
		Reason:    reasonOr(in.Reason, DefaultAdjustmentReason),
		Reference: uuid.NewString(),
		UserID:    in.UserID,
	}
	res, err := uc.applySingle(ctx, key, spec)
	if err != nil {
		return nil, uc.reject("adjustment", err)
	}
	return res, nil
}

func (uc *RegisterMovementUseCase) applySingle(ctx context.Context, key entity.StockKey, spec MovementSpec) (*MovementResult, error) {
	if !entity.ValidMovementQuantity(spec.Quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.validateKey(ctx, key); err != nil {
		return nil, err
	}
	spec.At = uc.now()

	var res MovementResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, stockRepo repository.StockRepository, movRepo repository.MovementRepository) error {
		entry, err := LockPosition(ctx, stockRepo, key)
		if err != nil {
			return err
		}
		var mov *entity.Movement
		if spec.Kind.Sign() > 0 {
			mov, err = ApplyCredit(ctx, stockRepo, movRepo, entry, spec)
		} else {
			mov, err = ApplyDebit(ctx, stockRepo, movRepo, entry, spec)
		}
		if err != nil {
			return err
		}
		res = MovementResult{Entry: entry, Movement: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.observer.MovementApplied(res.Movement.Kind, res.Movement.Quantity)
	uc.log.Info().
		Str("kind", string(res.Movement.Kind)).
		Int64("stock_entry_id", res.Entry.ID).
		Str("position", key.String()).
		Int("quantity", res.Movement.Quantity).
		Int("quantity_after", res.Movement.QuantityAfter).
		Msg("movimiento registrado")
	return &res, nil
}

// Transfer mueve stock entre bodegas en una sola transacción: crea las posiciones si faltan,
// las bloquea en orden de id, valida el origen y registra débito y crédito con la misma referencia.
func (uc *RegisterMovementUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	res, err := uc.transfer(ctx, in)
	if err != nil {
		return nil, uc.reject("transfer", err)
	}
	return res, nil
}

func (uc *RegisterMovementUseCase) transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if !entity.ValidMovementQuantity(in.Quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.OriginWarehouseID == in.DestinationWarehouseID {
		return nil, domain.ErrInvalidTransfer
	}
	base := entity.StockKey{ProductID: in.ProductID, SizeID: in.SizeID}
	originKey := base.WithWarehouse(in.OriginWarehouseID)
	destKey := base.WithWarehouse(in.DestinationWarehouseID)
	if err := uc.validateKey(ctx, originKey); err != nil {
		return nil, err
	}
	if err := uc.validateWarehouse(ctx, in.DestinationWarehouseID); err != nil {
		return nil, err
	}

	reason := reasonOr(in.Reason, DefaultTransferReason)
	now := uc.now()
	ref := uuid.NewString()

	var res TransferResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, stockRepo repository.StockRepository, movRepo repository.MovementRepository) error {
		o, err := stockRepo.GetOrCreate(ctx, originKey)
		if err != nil {
			return err
		}
		d, err := stockRepo.GetOrCreate(ctx, destKey)
		if err != nil {
			return err
		}
		locked, err := stockRepo.LockByIDs(ctx, []int64{o.ID, d.ID})
		if err != nil {
			return err
		}
		origin, dest := locked[o.ID], locked[d.ID]
		if origin == nil {
			return &domain.StockEntryMissingError{EntryID: o.ID}
		}
		if dest == nil {
			return &domain.StockEntryMissingError{EntryID: d.ID}
		}
		if origin.Quantity < in.Quantity {
			return &domain.InsufficientStockError{Position: origin.Key, EntryID: origin.ID, Requested: in.Quantity, Available: origin.Quantity}
		}

		debit, err := ApplyDebit(ctx, stockRepo, movRepo, origin, MovementSpec{
			Kind:      entity.MovementKindTransferDebit,
			Quantity:  in.Quantity,
			Reason:    entity.ReasonWithSuffix(reason, " (origen)"),
			Reference: ref,
			UserID:    in.UserID,
			At:        now,
		})
		if err != nil {
			return err
		}
		credit, err := ApplyCredit(ctx, stockRepo, movRepo, dest, MovementSpec{
			Kind:      entity.MovementKindTransferCredit,
			Quantity:  in.Quantity,
			Reason:    entity.ReasonWithSuffix(reason, " (destino)"),
			Reference: ref,
			UserID:    in.UserID,
			At:        now,
		})
		if err != nil {
			return err
		}
		res = TransferResult{Origin: origin, Destination: dest, Debit: debit, Credit: credit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.observer.MovementApplied(res.Debit.Kind, res.Debit.Quantity)
	uc.observer.MovementApplied(res.Credit.Kind, res.Credit.Quantity)
	uc.log.Info().
		Str("reference", ref).
		Int64("origin_entry_id", res.Origin.ID).
		Int64("destination_entry_id", res.Destination.ID).
		Int("quantity", in.Quantity).
		Msg("traspaso registrado")
	return &res, nil
}

// validateKey verifica que producto, talla y bodega existan y estén activos.
func (uc *RegisterMovementUseCase) validateKey(ctx context.Context, key entity.StockKey) error {
	product, err := uc.catalog.GetProduct(ctx, key.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %d: %w", key.ProductID, domain.ErrNotFound)
	}
	if !product.Active {
		return fmt.Errorf("producto %d: %w", key.ProductID, domain.ErrInactiveReference)
	}
	if key.SizeID != nil {
		size, err := uc.catalog.GetSize(ctx, *key.SizeID)
		if err != nil {
			return err
		}
		if size == nil {
			return fmt.Errorf("talla %d: %w", *key.SizeID, domain.ErrNotFound)
		}
		if !size.Active {
			return fmt.Errorf("talla %d: %w", *key.SizeID, domain.ErrInactiveReference)
		}
	}
	if key.WarehouseID != nil {
		return uc.validateWarehouse(ctx, *key.WarehouseID)
	}
	return nil
}

func (uc *RegisterMovementUseCase) validateWarehouse(ctx context.Context, id int64) error {
	wh, err := uc.catalog.GetWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("bodega %d: %w", id, domain.ErrNotFound)
	}
	if !wh.Active {
		return fmt.Errorf("bodega %d: %w", id, domain.ErrInactiveReference)
	}
	return nil
}

func (uc *RegisterMovementUseCase) reject(op string, err error) error {
	uc.observer.OperationRejected(op, err)
	uc.log.Warn().Err(err).Str("operation", op).Str("code", domain.Code(err)).Msg("movimiento rechazado")
	return err
}

func reasonOr(reason, def string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return def
}
