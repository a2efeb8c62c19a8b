package sales

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
)

// ReceiptLine línea del ticket con nombres ya resueltos.
type ReceiptLine struct {
	Code        string
	ProductName string
	SizeName    string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptData datos para generar el ticket.
type ReceiptData struct {
	StoreName     string
	WarehouseName string
	Sale          *entity.Sale
	CustomerName  string
	Lines         []ReceiptLine
}

// QueryUseCase consultas de ventas y generación de ticket.
type QueryUseCase struct {
	saleRepo     repository.SaleRepository
	stockRepo    repository.StockRepository
	catalog      repository.CatalogRepository
	customerRepo repository.CustomerRepository
	receipts     ReceiptGenerator
	storeName    string
}

// NewQueryUseCase construye el caso de uso. receipts puede ser nil si no se generan tickets.
func NewQueryUseCase(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	catalog repository.CatalogRepository,
	customerRepo repository.CustomerRepository,
	receipts ReceiptGenerator,
	storeName string,
) *QueryUseCase {
	return &QueryUseCase{
		saleRepo:     saleRepo,
		stockRepo:    stockRepo,
		catalog:      catalog,
		customerRepo: customerRepo,
		receipts:     receipts,
		storeName:    storeName,
	}
}

// GetSale devuelve la venta con sus líneas.
func (uc *QueryUseCase) GetSale(ctx context.Context, id int64) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("venta %d: %w", id, domain.ErrNotFound)
	}
	return uc.withLines(ctx, s)
}

// GetSaleByFolio devuelve la venta con sus líneas.
func (uc *QueryUseCase) GetSaleByFolio(ctx context.Context, folio string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("venta %s: %w", folio, domain.ErrNotFound)
	}
	return uc.withLines(ctx, s)
}

func (uc *QueryUseCase) withLines(ctx context.Context, s *entity.Sale) (*entity.Sale, error) {
	lines, err := uc.saleRepo.ListLineItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return s, nil
}

// Receipt genera el ticket PDF de la venta.
func (uc *QueryUseCase) Receipt(ctx context.Context, saleID int64) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("generador de tickets no configurado: %w", domain.ErrInvalidInput)
	}
	s, err := uc.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	data := ReceiptData{StoreName: uc.storeName, Sale: s}

	if s.CustomerID != nil {
		c, err := uc.customerRepo.GetByID(ctx, *s.CustomerID)
		if err != nil {
			return nil, err
		}
		if c != nil {
			data.CustomerName = c.Name
		}
	}

	for _, l := range s.Lines {
		rl := ReceiptLine{Quantity: l.Quantity, UnitPrice: l.UnitPrice, Discount: l.Discount, Subtotal: l.Subtotal}
		if p, err := uc.catalog.GetProduct(ctx, l.ProductID); err != nil {
			return nil, err
		} else if p != nil {
			rl.Code, rl.ProductName = p.Code, p.Name
		}
		e, err := uc.stockRepo.GetByID(ctx, l.StockEntryID)
		if err != nil {
			return nil, err
		}
		if e != nil {
			if e.Key.SizeID != nil {
				if sz, err := uc.catalog.GetSize(ctx, *e.Key.SizeID); err != nil {
					return nil, err
				} else if sz != nil {
					rl.SizeName = sz.Name
				}
			}
			if e.Key.WarehouseID != nil && data.WarehouseName == "" {
				if wh, err := uc.catalog.GetWarehouse(ctx, *e.Key.WarehouseID); err != nil {
					return nil, err
				} else if wh != nil {
					data.WarehouseName = wh.Name
				}
			}
		}
		data.Lines = append(data.Lines, rl)
	}
	return uc.receipts.GenerateReceipt(ctx, data)
}
