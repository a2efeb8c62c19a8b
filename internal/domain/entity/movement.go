package entity

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento del kardex.
type MovementKind string

const (
	MovementKindEntry          MovementKind = "ENTRY"
	MovementKindAdjustmentIn   MovementKind = "ADJUSTMENT_IN"
	MovementKindAdjustmentOut  MovementKind = "ADJUSTMENT_OUT"
	MovementKindTransferDebit  MovementKind = "TRANSFER_DEBIT"
	MovementKindTransferCredit MovementKind = "TRANSFER_CREDIT"
	MovementKindSaleDebit      MovementKind = "SALE_DEBIT"
	MovementKindSaleVoidCredit MovementKind = "SALE_VOID_CREDIT"
)

// Límites que comparten ambos backends; coinciden con las columnas INTEGER y VARCHAR(255).
const (
	MaxMovementQuantity = 1_000_000
	MaxStockQuantity    = math.MaxInt32
	MaxReasonLength     = 255
)

// ValidMovementQuantity indica si q puede registrarse en un solo movimiento.
func ValidMovementQuantity(q int) bool {
	return q > 0 && q <= MaxMovementQuantity
}

// ReasonWithSuffix agrega suffix a reason recortando reason para no pasar MaxReasonLength caracteres.
func ReasonWithSuffix(reason, suffix string) string {
	room := MaxReasonLength - utf8.RuneCountInString(suffix)
	if room < 0 {
		room = 0
	}
	if utf8.RuneCountInString(reason) > room {
		reason = string([]rune(reason)[:room])
	}
	return reason + suffix
}

// Sign devuelve +1 para créditos y -1 para débitos. Cero si el tipo no es válido.
func (k MovementKind) Sign() int {
	switch k {
	case MovementKindEntry, MovementKindAdjustmentIn, MovementKindTransferCredit, MovementKindSaleVoidCredit:
		return 1
	case MovementKindAdjustmentOut, MovementKindTransferDebit, MovementKindSaleDebit:
		return -1
	default:
		return 0
	}
}

// Valid indica si k es uno de los tipos conocidos.
func (k MovementKind) Valid() bool { return k.Sign() != 0 }

// Movement es un registro inmutable del kardex: un débito o crédito atómico sobre una posición.
// Quantity siempre es positivo; la dirección la da Kind.
type Movement struct {
	ID             int64
	Kind           MovementKind
	StockEntryID   int64
	Key            StockKey
	Quantity       int
	QuantityBefore int
	QuantityAfter  int
	Reason         string
	Reference      string // venta (folio), traspaso (uuid compartido) o uuid propio
	UserID         *int64 // nil = operación del sistema
	UnitCost       *decimal.Decimal
	CreatedAt      time.Time
}

// Consistent verifica after = before + signo × cantidad.
func (m *Movement) Consistent() bool {
	return m.Quantity > 0 && m.QuantityAfter == m.QuantityBefore+m.Kind.Sign()*m.Quantity
}
