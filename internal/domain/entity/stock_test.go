package entity_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

func TestStockKey_Equal_NullIsAValue(t *testing.T) {
	base := entity.StockKey{ProductID: 1}

	assert.True(t, base.Equal(entity.StockKey{ProductID: 1}))
	assert.False(t, base.Equal(entity.StockKey{ProductID: 1, WarehouseID: entity.ID(3)}), "nil no es comodín")
	assert.False(t, base.Equal(entity.StockKey{ProductID: 1, SizeID: entity.ID(3)}))
	assert.False(t, base.Equal(entity.StockKey{ProductID: 2}))

	withSize := entity.StockKey{ProductID: 1, SizeID: entity.ID(26), WarehouseID: entity.ID(2)}
	assert.True(t, withSize.Equal(entity.StockKey{ProductID: 1, SizeID: entity.ID(26), WarehouseID: entity.ID(2)}), "punteros distintos, mismos valores")
	assert.False(t, withSize.Equal(withSize.WithWarehouse(3)))
}

func TestStockKey_String(t *testing.T) {
	assert.Equal(t, "producto=1 talla=- bodega=2", entity.StockKey{ProductID: 1, WarehouseID: entity.ID(2)}.String())
	assert.Equal(t, "producto=1 talla=26 bodega=-", entity.StockKey{ProductID: 1, SizeID: entity.ID(26)}.String())
}

func TestStockEntry_CloneDoesNotShareIDs(t *testing.T) {
	e := &entity.StockEntry{ID: 1, Key: entity.StockKey{ProductID: 1, SizeID: entity.ID(26)}, Quantity: 5}
	c := e.Clone()
	*c.Key.SizeID = 27
	c.Quantity = 0

	assert.Equal(t, int64(26), *e.Key.SizeID)
	assert.Equal(t, 5, e.Quantity)
}

func TestMovementKind_Sign(t *testing.T) {
	credits := []entity.MovementKind{entity.MovementKindEntry, entity.MovementKindAdjustmentIn, entity.MovementKindTransferCredit, entity.MovementKindSaleVoidCredit}
	debits := []entity.MovementKind{entity.MovementKindAdjustmentOut, entity.MovementKindTransferDebit, entity.MovementKindSaleDebit}
	for _, k := range credits {
		assert.Equal(t, 1, k.Sign(), k)
	}
	for _, k := range debits {
		assert.Equal(t, -1, k.Sign(), k)
	}
	assert.False(t, entity.MovementKind("OTHER").Valid())
}

func TestMovement_Consistent(t *testing.T) {
	ok := &entity.Movement{Kind: entity.MovementKindSaleDebit, Quantity: 2, QuantityBefore: 5, QuantityAfter: 3}
	assert.True(t, ok.Consistent())

	wrongSign := &entity.Movement{Kind: entity.MovementKindEntry, Quantity: 2, QuantityBefore: 5, QuantityAfter: 3}
	assert.False(t, wrongSign.Consistent())

	zero := &entity.Movement{Kind: entity.MovementKindEntry, Quantity: 0, QuantityBefore: 5, QuantityAfter: 5}
	assert.False(t, zero.Consistent())
}

func TestReasonWithSuffix_FitsColumn(t *testing.T) {
	assert.Equal(t, "reabasto (origen)", entity.ReasonWithSuffix("reabasto", " (origen)"))

	long := strings.Repeat("á", entity.MaxReasonLength)
	got := entity.ReasonWithSuffix(long, " (destino)")
	assert.Equal(t, entity.MaxReasonLength, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, " (destino)"))
	assert.True(t, utf8.ValidString(got), "no corta a la mitad de un carácter")
}

func TestValidMovementQuantity(t *testing.T) {
	assert.True(t, entity.ValidMovementQuantity(1))
	assert.True(t, entity.ValidMovementQuantity(entity.MaxMovementQuantity))
	assert.False(t, entity.ValidMovementQuantity(0))
	assert.False(t, entity.ValidMovementQuantity(entity.MaxMovementQuantity+1))
}
