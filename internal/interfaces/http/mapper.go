package http

import (
	"github.com/jhoicas/tienda-inventario/internal/application/dto"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/sales"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

func toStockEntryDTO(e *entity.StockEntry) dto.StockEntryDTO {
	return dto.StockEntryDTO{
		ID:          e.ID,
		ProductID:   e.Key.ProductID,
		SizeID:      e.Key.SizeID,
		WarehouseID: e.Key.WarehouseID,
		Quantity:    e.Quantity,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toMovementDTO(m *entity.Movement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:             m.ID,
		Kind:           string(m.Kind),
		StockEntryID:   m.StockEntryID,
		ProductID:      m.Key.ProductID,
		SizeID:         m.Key.SizeID,
		WarehouseID:    m.Key.WarehouseID,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		Reference:      m.Reference,
		UserID:         m.UserID,
		UnitCost:       m.UnitCost,
		CreatedAt:      m.CreatedAt,
	}
}

func toMovementDTOs(list []*entity.Movement) []dto.MovementDTO {
	out := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementDTO(m))
	}
	return out
}

func toLowStockDTOs(list []inventory.LowStockSuggestion) []dto.LowStockDTO {
	out := make([]dto.LowStockDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.LowStockDTO{
			ProductID:    s.ProductID,
			Code:         s.Code,
			ProductName:  s.ProductName,
			CurrentStock: s.CurrentStock,
			MinStock:     s.MinStock,
			Shortfall:    s.Shortfall,
			SuggestedQty: s.SuggestedQty,
		})
	}
	return out
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:                s.ID,
		Folio:             s.Folio,
		Total:             s.Total,
		SoldAt:            s.SoldAt,
		SellerID:          s.SellerID,
		PaymentMethodID:   s.PaymentMethodID,
		CustomerID:        s.CustomerID,
		Type:              string(s.Type),
		InstallmentCount:  s.InstallmentCount,
		InstallmentAmount: s.InstallmentAmount,
		Lines:             make([]dto.SaleLineDTO, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, dto.SaleLineDTO{
			ID:           l.ID,
			ProductID:    l.ProductID,
			StockEntryID: l.StockEntryID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Discount:     l.Discount,
			Subtotal:     l.Subtotal,
		})
	}
	return resp
}

func toVoidSaleResponse(r *sales.VoidResult) dto.VoidSaleResponse {
	resp := dto.VoidSaleResponse{
		SaleID:   r.SaleID,
		Folio:    r.Folio,
		Restored: toMovementDTOs(r.Restored),
		Empty:    r.Empty,
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, dto.VoidFailureDTO{LineID: f.LineID, StockEntryID: f.EntryID})
	}
	return resp
}
