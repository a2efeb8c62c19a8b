package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

// LowStockSuggestion producto bajo mínimo con la cantidad sugerida para llegar a 1.5 × mínimo.
type LowStockSuggestion struct {
	repository.LowStockItem
	Shortfall    int
	SuggestedQty int
}

// QueryUseCase lecturas de posiciones y kardex (fuera de transacción).
type QueryUseCase struct {
	stockRepo repository.StockRepository
	movRepo   repository.MovementRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(stockRepo repository.StockRepository, movRepo repository.MovementRepository) *QueryUseCase {
	return &QueryUseCase{stockRepo: stockRepo, movRepo: movRepo}
}

// GetPosition devuelve la posición exacta de key (nil en talla/bodega es un valor, no comodín).
func (uc *QueryUseCase) GetPosition(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error) {
	e, err := uc.stockRepo.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("posición %s: %w", key, domain.ErrNotFound)
	}
	return e, nil
}

// ListPositions devuelve todas las posiciones de un producto.
func (uc *QueryUseCase) ListPositions(ctx context.Context, productID int64) ([]*entity.StockEntry, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.ListByProduct(ctx, productID)
}

// ListMovementsForEntry devuelve el kardex de una posición en orden cronológico.
func (uc *QueryUseCase) ListMovementsForEntry(ctx context.Context, stockEntryID int64) ([]*entity.Movement, error) {
	e, err := uc.stockRepo.GetByID(ctx, stockEntryID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("registro de stock %d: %w", stockEntryID, domain.ErrNotFound)
	}
	return uc.movRepo.ListForEntry(ctx, stockEntryID)
}

// ListMovementsForSale devuelve débitos y créditos de anulación asociados al folio.
// Sigue disponible después de anular la venta.
func (uc *QueryUseCase) ListMovementsForSale(ctx context.Context, folio string) ([]*entity.Movement, error) {
	if folio == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListForSale(ctx, folio)
}

// ListMovementsByReference reconstruye operaciones de varias patas (p. ej. ambos lados de un traspaso).
func (uc *QueryUseCase) ListMovementsByReference(ctx context.Context, reference string) ([]*entity.Movement, error) {
	if reference == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByReference(ctx, reference)
}

// LowStock devuelve los productos bajo su mínimo con la cantidad sugerida de reposición.
// warehouseID nil considera el stock de todas las bodegas.
func (uc *QueryUseCase) LowStock(ctx context.Context, warehouseID *int64) ([]LowStockSuggestion, error) {
	items, err := uc.stockRepo.ListBelowMinimum(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]LowStockSuggestion, 0, len(items))
	for _, it := range items {
		ideal := (it.MinStock*3 + 1) / 2 // ceil(1.5 × mínimo)
		suggested := ideal - it.CurrentStock
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, LowStockSuggestion{
			LowStockItem: it,
			Shortfall:    it.MinStock - it.CurrentStock,
			SuggestedQty: suggested,
		})
	}
	return out, nil
}
