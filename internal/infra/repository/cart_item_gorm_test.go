package repository

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartUpsert_CreatesThenIncrements(t *testing.T) {
	db := newTestDB(t)
	r := NewCartItemGormRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, 1, 10, 2))
	require.NoError(t, r.Upsert(ctx, 1, 10, 3))

	item, err := r.FindByUserAndProduct(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)

	// 別ユーザーの行は独立
	require.NoError(t, r.Upsert(ctx, 2, 10, 1))
	other, err := r.FindByUserAndProduct(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.Quantity)
}

func TestCartUpsert_RejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	r := NewCartItemGormRepository(db)

	assert.Error(t, r.Upsert(context.Background(), 1, 10, 0))
	assert.Error(t, r.Upsert(context.Background(), 1, 10, -1))
}

func TestDeleteAllByUserID_OnlyTouchesThatUser(t *testing.T) {
	db := newTestDB(t)
	r := NewCartItemGormRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, 1, 10, 1))
	require.NoError(t, r.Upsert(ctx, 1, 11, 1))
	require.NoError(t, r.Upsert(ctx, 2, 10, 1))

	require.NoError(t, r.DeleteAllByUserID(ctx, 1))

	var n int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	_, err := r.FindByUserAndProduct(ctx, 1, 10)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
