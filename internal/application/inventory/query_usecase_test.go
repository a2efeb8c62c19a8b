package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-inventario/internal/domain"
	"github.com/jhoicas/tienda-inventario/internal/domain/entity"
)

func TestLowStock_SuggestsUpToOneAndAHalfMinimum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.entry(t, f.wh1, 2)

	items, err := f.query.LowStock(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.product, items[0].ProductID)
	assert.Equal(t, 2, items[0].CurrentStock)
	assert.Equal(t, 3, items[0].Shortfall)
	assert.Equal(t, 6, items[0].SuggestedQty, "ceil(5 × 1.5) − 2")

	f.entry(t, f.wh2, 3)
	items, err = f.query.LowStock(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = f.query.LowStock(ctx, entity.ID(f.wh2))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].CurrentStock)
}

func TestQuery_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.query.ListPositions(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.query.ListMovementsForEntry(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.query.ListMovementsForSale(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	movs, err := f.query.ListMovementsForSale(ctx, "V-NADA")
	require.NoError(t, err)
	assert.Empty(t, movs)
}
