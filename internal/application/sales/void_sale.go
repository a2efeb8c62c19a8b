package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	pricing "github.com/jhoicas/tienda-inventario/internal/domain/inventory"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

// VoidResult resultado de anular una venta.
type VoidResult struct {
	SaleID   int64
	Folio    string
	Restored []*entity.Movement
	Failures []*domain.StockEntryMissingError
	// Empty indica que la venta no tenía líneas y solo se eliminó el encabezado.
	Empty bool
}

// VoidSaleUseCase anula ventas con créditos compensatorios SALE_VOID_CREDIT.
// Los SALE_DEBIT originales nunca se modifican.
type VoidSaleUseCase struct {
	txRunner TxRunner
	observer inventory.MovementObserver
	log      *logger.Logger
	now      func() time.Time
}

// NewVoidSaleUseCase construye el caso de uso. observer puede ser nil.
func NewVoidSaleUseCase(txRunner TxRunner, observer inventory.MovementObserver, log *logger.Logger) *VoidSaleUseCase {
	if observer == nil {
		observer = inventory.NoopObserver
	}
	return &VoidSaleUseCase{
		txRunner: txRunner,
		observer: observer,
		log:      log.Component("sales"),
		now:      time.Now,
	}
}

// VoidSale restituye cada línea a su registro de stock y elimina la venta. Las líneas cuyo
// registro ya no existe se reportan en Failures sin detener las demás; en ese caso se devuelve
// el resultado junto con un *domain.PartialVoidError.
func (uc *VoidSaleUseCase) VoidSale(ctx context.Context, saleID int64, userID *int64) (*VoidResult, error) {
	now := uc.now()
	var res VoidResult
	err := uc.txRunner.RunSale(ctx, func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error {
		res = VoidResult{SaleID: saleID}
		sale, err := saleRepo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("venta %d: %w", saleID, domain.ErrNotFound)
		}
		res.Folio = sale.Folio

		lines, err := saleRepo.ListLineItems(ctx, sale.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			res.Empty = true
			return saleRepo.Delete(ctx, sale.ID)
		}

		locked, err := stockRepo.LockByIDs(ctx, lineEntryIDs(lines))
		if err != nil {
			return err
		}
		reason := fmt.Sprintf("anulación de venta #%d (%s)", sale.ID, sale.Folio)
		for _, l := range lines {
			e := locked[l.StockEntryID]
			if e == nil {
				res.Failures = append(res.Failures, &domain.StockEntryMissingError{EntryID: l.StockEntryID, LineID: l.ID})
				continue
			}
			mov, err := inventory.ApplyCredit(ctx, stockRepo, movRepo, e, inventory.MovementSpec{
				Kind:      entity.MovementKindSaleVoidCredit,
				Quantity:  l.Quantity,
				Reason:    reason,
				Reference: sale.Folio,
				UserID:    userID,
				At:        now,
			})
			if err != nil {
				return err
			}
			res.Restored = append(res.Restored, mov)
		}

		if sale.Type == entity.SaleTypeCredit && sale.CustomerID != nil {
			amount := pricing.CreditAmount(sale.Total, sale.InstallmentCount, sale.InstallmentAmount)
			if err := customerRepo.IncreaseBalance(ctx, *sale.CustomerID, amount.Neg()); err != nil {
				return err
			}
		}

		if err := saleRepo.DeleteLineItems(ctx, sale.ID); err != nil {
			return err
		}
		return saleRepo.Delete(ctx, sale.ID)
	})
	if err != nil {
		uc.observer.OperationRejected("void", err)
		uc.log.Warn().Err(err).Int64("sale_id", saleID).Str("code", domain.Code(err)).Msg("anulación rechazada")
		return nil, err
	}

	for _, m := range res.Restored {
		uc.observer.MovementApplied(m.Kind, m.Quantity)
	}
	if res.Empty {
		uc.log.Warn().Int64("sale_id", saleID).Str("folio", res.Folio).Msg("venta sin líneas: solo se eliminó el encabezado")
		return &res, nil
	}
	if len(res.Failures) > 0 {
		perr := &domain.PartialVoidError{SaleID: saleID, Failures: res.Failures}
		uc.log.Error().Err(perr).Int64("sale_id", saleID).Int("restored", len(res.Restored)).Msg("venta anulada parcialmente")
		return &res, perr
	}
	uc.log.Info().Int64("sale_id", saleID).Str("folio", res.Folio).Int("restored", len(res.Restored)).Msg("venta anulada")
	return &res, nil
}

func lineEntryIDs(lines []*entity.SaleLineItem) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.StockEntryID]; ok {
			continue
		}
		seen[l.StockEntryID] = struct{}{}
		ids = append(ids, l.StockEntryID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
