package inventory_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-inventario/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineSubtotal(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		qty      int
		discount string
		want     string
	}{
		{"sin descuento", "100", 2, "0", "200"},
		{"10 por ciento", "100", 2, "10", "180"},
		{"descuento total", "59.90", 3, "100", "0"},
		{"redondeo a centavos", "33.333", 1, "0", "33.33"},
		{"descuento fuera de rango no baja de cero", "100", 1, "150", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.LineSubtotal(dec(tc.price), tc.qty, dec(tc.discount))
			assert.True(t, dec(tc.want).Equal(got), "got %s want %s", got, tc.want)
		})
	}
}

func TestValidDiscount(t *testing.T) {
	assert.True(t, inventory.ValidDiscount(dec("0")))
	assert.True(t, inventory.ValidDiscount(dec("100")))
	assert.False(t, inventory.ValidDiscount(dec("-1")))
	assert.False(t, inventory.ValidDiscount(dec("100.01")))
}

func TestCreditAmount(t *testing.T) {
	total := dec("180")
	assert.True(t, total.Equal(inventory.CreditAmount(total, 0, nil)))

	monthly := dec("50")
	assert.True(t, dec("200").Equal(inventory.CreditAmount(total, 4, &monthly)))

	zero := decimal.Zero
	assert.True(t, total.Equal(inventory.CreditAmount(total, 4, &zero)))
}

func TestNewFolio(t *testing.T) {
	at := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	f := inventory.NewFolio(at)

	assert.Regexp(t, regexp.MustCompile(`^V-20260309-[0-9A-F]{6}$`), f)
	assert.NotEqual(t, f, inventory.NewFolio(at))
}
