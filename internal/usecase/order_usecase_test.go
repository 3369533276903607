package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeInput() PlaceOrderInput {
	return PlaceOrderInput{
		PaymentMethod:  "card",
		ShippingMethod: "courier",
	}
}

func TestPlaceOrder_ReservesStockAndClearsCart(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p1 := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	p2 := seedProduct(t, db, "drip-kettle", "4500.00", 3)
	seedCartItem(t, db, 1, p1.ID, 2)
	seedCartItem(t, db, 1, p2.ID, 1)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)

	assert.Equal(t, string(model.OrderStatusReserved), out.Status)
	assert.True(t, out.TotalAmount.Equal(decimal.RequireFromString("6900.00")),
		"got total %s", out.TotalAmount)
	assert.Len(t, out.Items, 2)

	// 在庫が予約ぶん減る
	assert.Equal(t, int64(8), stockOf(t, db, p1.ID))
	assert.Equal(t, int64(2), stockOf(t, db, p2.ID))

	// カートは空
	assert.Equal(t, int64(0), cartRowCount(t, db, 1))
}

func TestPlaceOrder_SnapshotSurvivesProductEdit(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "grinder", "9800.00", 5)
	seedCartItem(t, db, 1, p.ID, 1)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)

	// 後から商品を値上げしても注文明細は変わらない
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", p.ID).
		Update("price", decimal.RequireFromString("12800.00")).Error)

	got, err := uc.GetMyOrderDetail(ctx, 1, out.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("9800.00")))
}

func TestPlaceOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p1 := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	p2 := seedProduct(t, db, "drip-kettle", "4500.00", 1)
	seedCartItem(t, db, 1, p1.ID, 2)
	seedCartItem(t, db, 1, p2.ID, 5) // 在庫1に対して5

	_, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.ErrorIs(t, err, ErrInsufficientStock)

	// 全部巻き戻る：在庫もカートも注文も元のまま
	assert.Equal(t, int64(10), stockOf(t, db, p1.ID))
	assert.Equal(t, int64(1), stockOf(t, db, p2.ID))
	assert.Equal(t, int64(2), cartRowCount(t, db, 1))

	var orders int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)

	var items int64
	require.NoError(t, db.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(0), items)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)

	_, err := uc.PlaceOrder(context.Background(), 1, placeInput())
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestPlaceOrder_LastUnitGoesToOneBuyerOnly(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "limited-mug", "2000.00", 1)
	seedCartItem(t, db, 1, p.ID, 1)
	seedCartItem(t, db, 2, p.ID, 1)

	_, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)

	_, err = uc.PlaceOrder(ctx, 2, placeInput())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, int64(0), stockOf(t, db, p.ID))
	// 負けた側のカートは残る
	assert.Equal(t, int64(1), cartRowCount(t, db, 2))
}

// 同じ最後の1個を本当に同時に取り合わせる
func TestPlaceOrder_ConcurrentBuyersGetLastUnitOnce(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)

	p := seedProduct(t, db, "limited-mug", "2000.00", 1)
	seedCartItem(t, db, 1, p.ID, 1)
	seedCartItem(t, db, 2, p.ID, 1)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, userID := range []int64{1, 2} {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := uc.PlaceOrder(context.Background(), uid, placeInput())
			errs <- err
		}(userID)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrInsufficientStock):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	assert.Equal(t, int64(0), stockOf(t, db, p.ID))

	var orders int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), orders)
}

func TestCancel_RestocksAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 3)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)
	require.Equal(t, int64(7), stockOf(t, db, p.ID))

	require.NoError(t, uc.CancelMyOrder(ctx, 1, out.ID))
	assert.Equal(t, int64(10), stockOf(t, db, p.ID))
	assert.Equal(t, model.OrderStatusCancelled, orderByID(t, db, out.ID).Status)

	// 二重キャンセルは成功扱いで在庫は動かない
	require.NoError(t, uc.CancelMyOrder(ctx, 1, out.ID))
	assert.Equal(t, int64(10), stockOf(t, db, p.ID))
}

// 商品が削除済みでもキャンセルは成立し、在庫も戻ること。
// 戻せないと注文がRESERVEDのまま残り、掃除タスクも毎回失敗し続ける。
func TestCancel_RestocksSoftDeletedProduct(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "discontinued-mug", "2000.00", 5)
	seedCartItem(t, db, 1, p.ID, 2)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)
	require.Equal(t, int64(3), stockOf(t, db, p.ID))

	require.NoError(t, db.Delete(&model.Product{}, p.ID).Error)

	require.NoError(t, uc.Cancel(ctx, out.ID))
	assert.Equal(t, model.OrderStatusCancelled, orderByID(t, db, out.ID).Status)

	var got model.Product
	require.NoError(t, db.Unscoped().First(&got, p.ID).Error)
	assert.Equal(t, int64(5), got.StockQuantity)
}

func TestCancel_PaidOrderIsRejected(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 1)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)
	require.NoError(t, uc.MarkPaid(ctx, 1, out.ID))

	err = uc.CancelMyOrder(ctx, 1, out.ID)
	assert.ErrorIs(t, err, ErrInvalidOrderTransition)

	// 支払い済みの在庫は戻らない
	assert.Equal(t, int64(9), stockOf(t, db, p.ID))
}

func TestMarkPaid_SetsPaidAtAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 2)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)

	require.NoError(t, uc.MarkPaid(ctx, 1, out.ID))
	o := orderByID(t, db, out.ID)
	assert.Equal(t, model.OrderStatusPaid, o.Status)
	require.NotNil(t, o.PaidAt)

	// 二重支払い通知はno-op。在庫にも触らない。
	require.NoError(t, uc.MarkPaid(ctx, 1, out.ID))
	assert.Equal(t, int64(8), stockOf(t, db, p.ID))
}

func TestMarkPaid_CancelledOrderIsRejected(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 1)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)
	require.NoError(t, uc.CancelMyOrder(ctx, 1, out.ID))

	err = uc.MarkPaid(ctx, 1, out.ID)
	assert.ErrorIs(t, err, ErrInvalidOrderTransition)
	assert.Equal(t, model.OrderStatusCancelled, orderByID(t, db, out.ID).Status)
}

func TestOrders_OwnershipIsEnforced(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 1)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)

	// 他人の注文は「存在しない」
	_, err = uc.GetMyOrderDetail(ctx, 2, out.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	err = uc.CancelMyOrder(ctx, 2, out.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.Equal(t, model.OrderStatusReserved, orderByID(t, db, out.ID).Status)
}

func TestRepeatOrder_CapsAtCurrentStock(t *testing.T) {
	db := newTestDB(t)
	uc := newOrderUsecaseForTest(t, db)
	ctx := context.Background()

	p := seedProduct(t, db, "coffee-beans", "1200.00", 10)
	seedCartItem(t, db, 1, p.ID, 4)

	out, err := uc.PlaceOrder(ctx, 1, placeInput())
	require.NoError(t, err)

	// 残り在庫を4未満に落としてから再注文
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", p.ID).
		Update("stock_quantity", int64(2)).Error)

	require.NoError(t, uc.RepeatOrder(ctx, 1, out.ID))

	var ci model.CartItem
	require.NoError(t, db.Where("user_id = ? AND product_id = ?", 1, p.ID).First(&ci).Error)
	assert.Equal(t, int64(2), ci.Quantity)
}
