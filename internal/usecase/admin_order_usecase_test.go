package usecase

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUpdateStatus_CancelRestocks(t *testing.T) {
	db := newTestDB(t)
	orderUC := newOrderUsecaseForTest(t, db)
	adminUC := NewAdminOrderUsecase(infraRepo.NewTxManagerGorm(db), orderUC)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 4)

	out, err := orderUC.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)
	require.Equal(t, int64(6), stockOf(t, db, p.ID))

	require.NoError(t, adminUC.UpdateStatus(ctx, out.ID, AdminUpdateOrderStatusInput{Status: "CANCELLED"}))
	assert.Equal(t, model.OrderStatusCancelled, orderByID(t, db, out.ID).Status)
	assert.Equal(t, int64(10), stockOf(t, db, p.ID))
}

func TestAdminUpdateStatus_MarkPaid(t *testing.T) {
	db := newTestDB(t)
	orderUC := newOrderUsecaseForTest(t, db)
	adminUC := NewAdminOrderUsecase(infraRepo.NewTxManagerGorm(db), orderUC)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 1)

	out, err := orderUC.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)

	require.NoError(t, adminUC.UpdateStatus(ctx, out.ID, AdminUpdateOrderStatusInput{Status: "PAID"}))
	assert.Equal(t, model.OrderStatusPaid, orderByID(t, db, out.ID).Status)
}

func TestAdminUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	orderUC := newOrderUsecaseForTest(t, db)
	adminUC := NewAdminOrderUsecase(infraRepo.NewTxManagerGorm(db), orderUC)

	err := adminUC.UpdateStatus(context.Background(), 1, AdminUpdateOrderStatusInput{Status: "SHIPPED"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdminList_FilterByStatus(t *testing.T) {
	db := newTestDB(t)
	orderUC := newOrderUsecaseForTest(t, db)
	adminUC := NewAdminOrderUsecase(infraRepo.NewTxManagerGorm(db), orderUC)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 1)
	seedCartItem(t, db, 2, p.ID, 1)

	o1, err := orderUC.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)
	_, err = orderUC.PlaceOrder(ctx, 2, placeInput())
	require.NoError(t, err)
	require.NoError(t, orderUC.MarkPaid(ctx, 1, o1.ID))

	out, err := adminUC.List(ctx, repo.AdminOrderListFilter{Status: "PAID"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, o1.ID, out.Items[0].ID)
}
