package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, userID int64, status model.OrderStatus) int64 {
	t.Helper()
	o := model.Order{
		UserID:         userID,
		Status:         status,
		TotalAmount:    decimal.RequireFromString("1000.00"),
		PaymentMethod:  "card",
		ShippingMethod: "courier",
	}
	require.NoError(t, db.Create(&o).Error)
	return o.ID
}

func TestTransitionStatus_OnlyFirstWriterWins(t *testing.T) {
	db := newTestDB(t)
	r := NewOrderGormRepository(db)
	ctx := context.Background()

	id := seedOrder(t, db, 1, model.OrderStatusReserved)

	ok, err := r.TransitionStatus(ctx, id, model.OrderStatusReserved, model.OrderStatusPaid, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	// 既にPAIDなので同じ遷移は負ける
	ok, err = r.TransitionStatus(ctx, id, model.OrderStatusReserved, model.OrderStatusCancelled, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	o, err := r.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, o.Status)
	assert.NotNil(t, o.PaidAt)
}

func TestTransitionStatus_ToCancelledKeepsPaidAtEmpty(t *testing.T) {
	db := newTestDB(t)
	r := NewOrderGormRepository(db)
	ctx := context.Background()

	id := seedOrder(t, db, 1, model.OrderStatusReserved)

	ok, err := r.TransitionStatus(ctx, id, model.OrderStatusReserved, model.OrderStatusCancelled, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	o, err := r.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, o.Status)
	assert.Nil(t, o.PaidAt)
}

func TestListExpiredReserved_FiltersByStatusAndAge(t *testing.T) {
	db := newTestDB(t)
	r := NewOrderGormRepository(db)
	ctx := context.Background()

	staleReserved := seedOrder(t, db, 1, model.OrderStatusReserved)
	freshReserved := seedOrder(t, db, 1, model.OrderStatusReserved)
	stalePaid := seedOrder(t, db, 1, model.OrderStatusPaid)

	old := time.Now().Add(-48 * time.Hour)
	for _, id := range []int64{staleReserved, stalePaid} {
		require.NoError(t, db.Model(&model.Order{}).Where("id = ?", id).
			UpdateColumn("updated_at", old).Error)
	}

	got, err := r.ListExpiredReserved(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, staleReserved, got[0].ID)
	_ = freshReserved
}

func TestListAdmin_FiltersByStatusAndUser(t *testing.T) {
	db := newTestDB(t)
	r := NewOrderGormRepository(db)
	ctx := context.Background()

	seedOrder(t, db, 1, model.OrderStatusReserved)
	seedOrder(t, db, 1, model.OrderStatusPaid)
	seedOrder(t, db, 2, model.OrderStatusPaid)

	userID := int64(1)
	items, total, err := r.ListAdmin(ctx, repo.AdminOrderListFilter{Status: "PAID", UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].UserID)
	assert.Equal(t, model.OrderStatusPaid, items[0].Status)
}
