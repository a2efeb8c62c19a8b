package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	pricing "github.com/jhoicas/tienda-inventario/internal/domain/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

// SaleItemInput línea capturada en el punto de venta. Vende de un registro de stock ya resuelto.
type SaleItemInput struct {
	StockEntryID int64
	Quantity     int
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal // porcentaje 0-100
}

// CreateSaleInput datos de la venta. Folio vacío = se genera.
type CreateSaleInput struct {
	Folio             string
	SellerID          *int64
	PaymentMethodID   int64
	CustomerID        *int64
	Type              entity.SaleType
	InstallmentCount  int
	InstallmentAmount *decimal.Decimal
	Items             []SaleItemInput
	IdempotencyKey    string
}

// CreateSaleUseCase registra una venta como un lote de débitos SALE_DEBIT en una sola transacción.
type CreateSaleUseCase struct {
	txRunner TxRunner
	guard    IdempotencyGuard
	observer inventory.MovementObserver
	log      *logger.Logger
	now      func() time.Time
	newFolio func(time.Time) string
}

// NewCreateSaleUseCase construye el caso de uso. guard y observer pueden ser nil.
func NewCreateSaleUseCase(txRunner TxRunner, guard IdempotencyGuard, observer inventory.MovementObserver, log *logger.Logger) *CreateSaleUseCase {
	if observer == nil {
		observer = inventory.NoopObserver
	}
	return &CreateSaleUseCase{
		txRunner: txRunner,
		guard:    guard,
		observer: observer,
		log:      log.Component("sales"),
		now:      time.Now,
		newFolio: pricing.NewFolio,
	}
}

// CreateSale valida las líneas contra un mapa de trabajo (dos líneas del mismo registro comparten
// disponibilidad), persiste encabezado y líneas, descuenta cada línea y, si es a crédito, carga el
// saldo del cliente. Cualquier fallo revierte la venta completa.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	if err := normalizeSaleInput(&in); err != nil {
		return nil, uc.reject(err)
	}

	guarded := in.IdempotencyKey != "" && uc.guard != nil
	if guarded {
		ok, err := uc.guard.Acquire(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, uc.reject(&domain.PersistenceError{Op: "reservar llave de idempotencia", Err: err})
		}
		if !ok {
			folio, _ := uc.guard.Lookup(ctx, in.IdempotencyKey)
			return nil, uc.reject(&domain.DuplicateRequestError{Key: in.IdempotencyKey, Folio: folio})
		}
	}

	sale, movements, err := uc.createSale(ctx, in)
	if err != nil {
		if guarded {
			if rerr := uc.guard.Release(ctx, in.IdempotencyKey); rerr != nil {
				uc.log.Warn().Err(rerr).Str("idempotency_key", in.IdempotencyKey).Msg("no se pudo liberar la llave")
			}
		}
		return nil, uc.reject(err)
	}
	if guarded {
		if err := uc.guard.Complete(ctx, in.IdempotencyKey, sale.Folio); err != nil {
			uc.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("no se pudo registrar el folio de la llave")
		}
	}

	for _, m := range movements {
		uc.observer.MovementApplied(m.Kind, m.Quantity)
	}
	uc.log.Info().
		Int64("sale_id", sale.ID).
		Str("folio", sale.Folio).
		Int("lines", len(sale.Lines)).
		Str("total", sale.Total.StringFixed(2)).
		Str("type", string(sale.Type)).
		Msg("venta registrada")
	return sale, nil
}

func (uc *CreateSaleUseCase) createSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, []*entity.Movement, error) {
	now := uc.now()
	folio := in.Folio
	if folio == "" {
		folio = uc.newFolio(now)
	}

	var (
		sale      *entity.Sale
		movements []*entity.Movement
	)
	err := uc.txRunner.RunSale(ctx, func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error {
		// 1. Bloquear una sola vez todos los registros referenciados
		ids := entryIDs(in.Items)
		entries, err := stockRepo.LockByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if entries[id] == nil {
				return fmt.Errorf("registro de stock %d: %w", id, domain.ErrNotFound)
			}
		}

		// 2. Validar en orden contra el mapa de trabajo
		working := make(map[int64]int, len(entries))
		for id, e := range entries {
			working[id] = e.Quantity
		}
		s := &entity.Sale{
			Folio:             folio,
			SoldAt:            now,
			SellerID:          in.SellerID,
			PaymentMethodID:   in.PaymentMethodID,
			CustomerID:        in.CustomerID,
			Type:              in.Type,
			InstallmentCount:  in.InstallmentCount,
			InstallmentAmount: in.InstallmentAmount,
			Total:             decimal.Zero,
		}
		for i, it := range in.Items {
			e := entries[it.StockEntryID]
			if working[it.StockEntryID] < it.Quantity {
				return fmt.Errorf("línea %d: %w", i+1, &domain.InsufficientStockError{
					Position:  e.Key,
					EntryID:   e.ID,
					Requested: it.Quantity,
					Available: working[it.StockEntryID],
				})
			}
			working[it.StockEntryID] -= it.Quantity

			subtotal := pricing.LineSubtotal(it.UnitPrice, it.Quantity, it.Discount)
			s.Total = s.Total.Add(subtotal)
			s.Lines = append(s.Lines, &entity.SaleLineItem{
				ProductID:    e.Key.ProductID,
				StockEntryID: e.ID,
				Quantity:     it.Quantity,
				UnitPrice:    it.UnitPrice,
				Discount:     it.Discount,
				Subtotal:     subtotal,
			})
		}

		// 3. Encabezado y líneas
		if err := saleRepo.Create(ctx, s); err != nil {
			return err
		}
		for _, l := range s.Lines {
			l.SaleID = s.ID
			if err := saleRepo.CreateLineItem(ctx, l); err != nil {
				return err
			}
		}

		// 4. Un débito por línea; quantityBefore encadena desde lo bloqueado en el paso 1
		for _, l := range s.Lines {
			mov, err := inventory.ApplyDebit(ctx, stockRepo, movRepo, entries[l.StockEntryID], inventory.MovementSpec{
				Kind:      entity.MovementKindSaleDebit,
				Quantity:  l.Quantity,
				Reason:    fmt.Sprintf("venta %s", s.Folio),
				Reference: s.Folio,
				UserID:    in.SellerID,
				At:        now,
			})
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}

		if s.Type == entity.SaleTypeCredit {
			amount := pricing.CreditAmount(s.Total, s.InstallmentCount, s.InstallmentAmount)
			if err := customerRepo.IncreaseBalance(ctx, *s.CustomerID, amount); err != nil {
				return err
			}
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sale, movements, nil
}

func (uc *CreateSaleUseCase) reject(err error) error {
	uc.observer.OperationRejected("sale", err)
	uc.log.Warn().Err(err).Str("code", domain.Code(err)).Msg("venta rechazada")
	return err
}

// normalizeSaleInput valida todo lo que no depende del stock y aplica valores por defecto.
func normalizeSaleInput(in *CreateSaleInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("la venta no tiene líneas: %w", domain.ErrInvalidInput)
	}
	if in.PaymentMethodID <= 0 {
		return fmt.Errorf("método de pago requerido: %w", domain.ErrInvalidInput)
	}
	if in.Type == "" {
		in.Type = entity.SaleTypeCash
	}
	if !in.Type.Valid() {
		return fmt.Errorf("tipo de venta %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if in.Type == entity.SaleTypeCredit && in.CustomerID == nil {
		return fmt.Errorf("la venta a crédito requiere cliente: %w", domain.ErrInvalidInput)
	}
	if in.InstallmentCount < 0 || (in.InstallmentAmount != nil && in.InstallmentAmount.IsNegative()) {
		return fmt.Errorf("mensualidades inválidas: %w", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		switch {
		case it.StockEntryID <= 0:
			return fmt.Errorf("línea %d sin registro de stock: %w", i+1, domain.ErrInvalidInput)
		case !entity.ValidMovementQuantity(it.Quantity):
			return fmt.Errorf("línea %d: %w", i+1, domain.ErrInvalidQuantity)
		case !it.UnitPrice.IsPositive():
			return fmt.Errorf("línea %d precio unitario debe ser mayor que cero: %w", i+1, domain.ErrInvalidInput)
		case !pricing.ValidDiscount(it.Discount):
			return fmt.Errorf("línea %d descuento fuera de 0-100: %w", i+1, domain.ErrInvalidInput)
		}
	}
	return nil
}

// entryIDs ids únicos de las líneas en orden ascendente.
func entryIDs(items []SaleItemInput) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.StockEntryID]; ok {
			continue
		}
		seen[it.StockEntryID] = struct{}{}
		ids = append(ids, it.StockEntryID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
