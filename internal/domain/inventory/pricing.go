package inventory

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineSubtotal calcula el subtotal de una línea de venta (servicio de dominio).
// Subtotal = max(PrecioUnitario × Cantidad × (1 − Descuento/100), 0), redondeado a centavos.
func LineSubtotal(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discount.Div(hundred))
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Mul(factor)
	if subtotal.IsNegative() {
		return decimal.Zero
	}
	return subtotal.Round(2)
}

// ValidDiscount indica si el porcentaje está en [0, 100].
func ValidDiscount(discount decimal.Decimal) bool {
	return !discount.IsNegative() && discount.LessThanOrEqual(hundred)
}

// CreditAmount monto que una venta a crédito suma al saldo del cliente:
// mensualidad × número de pagos cuando ambos vienen informados, si no el total.
func CreditAmount(total decimal.Decimal, installmentCount int, installmentAmount *decimal.Decimal) decimal.Decimal {
	if installmentCount > 0 && installmentAmount != nil && installmentAmount.IsPositive() {
		return installmentAmount.Mul(decimal.NewFromInt(int64(installmentCount))).Round(2)
	}
	return total
}
