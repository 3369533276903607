package repository

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve_DecrementsWhenEnough(t *testing.T) {
	db := newTestDB(t)
	r := NewInventoryGormRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", 5)

	ok, err := r.Reserve(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), currentStock(t, db, p.ID))

	// ちょうど残り全部
	ok, err = r.Reserve(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), currentStock(t, db, p.ID))
}

func TestReserve_InsufficientStockLeavesRowUntouched(t *testing.T) {
	db := newTestDB(t)
	r := NewInventoryGormRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", 2)

	ok, err := r.Reserve(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(2), currentStock(t, db, p.ID))
}

func TestReserve_UnknownProduct(t *testing.T) {
	db := newTestDB(t)
	r := NewInventoryGormRepository(db)

	_, err := r.Reserve(context.Background(), 9999, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestRestock_AddsUnconditionally(t *testing.T) {
	db := newTestDB(t)
	r := NewInventoryGormRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", 2)

	require.NoError(t, r.Restock(ctx, p.ID, 3))
	assert.Equal(t, int64(5), currentStock(t, db, p.ID))

	assert.ErrorIs(t, r.Restock(ctx, 9999, 1), repo.ErrNotFound)
}

// 論理削除済みの商品にも在庫は戻せること。
// 戻せないと削除商品を含む注文がキャンセルできなくなる。
func TestRestock_ReachesSoftDeletedProducts(t *testing.T) {
	db := newTestDB(t)
	r := NewInventoryGormRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", 5)
	require.NoError(t, db.Delete(&model.Product{}, p.ID).Error)

	require.NoError(t, r.Restock(ctx, p.ID, 2))

	var got model.Product
	require.NoError(t, db.Unscoped().First(&got, p.ID).Error)
	assert.Equal(t, int64(7), got.StockQuantity)
}

func TestSetStock_OverwritesValue(t *testing.T) {
	db := newTestDB(t)
	r := NewInventoryGormRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", 2)

	require.NoError(t, r.SetStock(ctx, p.ID, 42))
	assert.Equal(t, int64(42), currentStock(t, db, p.ID))
}
