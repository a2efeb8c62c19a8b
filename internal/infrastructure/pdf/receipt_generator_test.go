package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-inventario/internal/application/sales"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/pdf"
)

func sampleReceipt(t entity.SaleType) sales.ReceiptData {
	s := &entity.Sale{
		ID:     1,
		Folio:  "V-20240115-ABC123",
		Total:  decimal.RequireFromString("2250.00"),
		SoldAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Type:   t,
	}
	if t == entity.SaleTypeCredit {
		amount := decimal.RequireFromString("750.00")
		s.InstallmentCount = 3
		s.InstallmentAmount = &amount
	}
	return sales.ReceiptData{
		StoreName:     "Zapatería Centro",
		WarehouseName: "Tienda principal",
		Sale:          s,
		CustomerName:  "María López",
		Lines: []sales.ReceiptLine{{
			Code:        "TEN-001",
			ProductName: "Tenis running",
			SizeName:    "26",
			Quantity:    3,
			UnitPrice:   decimal.RequireFromString("750"),
			Discount:    decimal.Zero,
			Subtotal:    decimal.RequireFromString("2250.00"),
		}},
	}
}

func TestGenerateReceipt_Contado(t *testing.T) {
	out, err := pdf.NewReceiptGenerator().GenerateReceipt(context.Background(), sampleReceipt(entity.SaleTypeCash))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestGenerateReceipt_CreditoConAbonos(t *testing.T) {
	out, err := pdf.NewReceiptGenerator().GenerateReceipt(context.Background(), sampleReceipt(entity.SaleTypeCredit))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceipt_SinVenta(t *testing.T) {
	_, err := pdf.NewReceiptGenerator().GenerateReceipt(context.Background(), sales.ReceiptData{})
	assert.Error(t, err)
}
