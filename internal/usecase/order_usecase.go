package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderUsecase は注文の確定（在庫予約）とライフサイクル遷移を持つ。
// 予約＝注文確定時点での在庫減算。支払い前に行う。
type OrderUsecase struct {
	tx       repo.TransactionManager
	validate *validator.Validate
	log      *zap.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, log *zap.Logger) *OrderUsecase {
	return &OrderUsecase{
		tx:       tx,
		validate: validator.New(),
		log:      log,
	}
}

type PlaceOrderInput struct {
	PaymentMethod   string `json:"payment_method" validate:"required,max=64"`
	ShippingMethod  string `json:"shipping_method" validate:"required,max=64"`
	ShippingAddress string `json:"shipping_address" validate:"max=255"`
	Comment         string `json:"comment" validate:"max=1000"`
}

type OrderItemOutput struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	PaymentMethod   string            `json:"payment_method"`
	ShippingMethod  string            `json:"shipping_method"`
	ShippingAddress string            `json:"shipping_address"`
	Comment         string            `json:"comment"`
	CreatedAt       time.Time         `json:"created_at"`
	PaidAt          *time.Time        `json:"paid_at"`
	Items           []OrderItemOutput `json:"items"`
}

// PlaceOrder はカートを注文に変換する。全部成功か全部無しか。
//  1. RESERVEDで注文を作成（フォームの金額・支払い・配送をスナップショット）
//  2. 明細を注文時点の名前・価格でスナップショット
//  3. 各明細の在庫を予約（足りなければ全体rollback）
//  4. カートを空にする
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}
	if err := u.validate.Struct(in); err != nil {
		return OrderOutput{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: list cart: %v", ErrOrderPlacementFailed, err)
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		// スナップショットと合計
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("%w: product %d is gone", ErrOrderPlacementFailed, ci.ProductID)
			}
			if err != nil {
				return fmt.Errorf("%w: find product: %v", ErrOrderPlacementFailed, err)
			}

			lineTotal := p.Price.Mul(decimal.NewFromInt(ci.Quantity))
			orderItems = append(orderItems, model.OrderItem{
				ProductID:  ci.ProductID,
				Name:       p.Name,
				Price:      p.Price,
				Quantity:   ci.Quantity,
				TotalPrice: lineTotal,
				CreatedAt:  now,
			})
			total = total.Add(lineTotal)
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:          userID,
			Status:          model.OrderStatusReserved,
			TotalAmount:     total,
			PaymentMethod:   in.PaymentMethod,
			ShippingMethod:  in.ShippingMethod,
			ShippingAddress: in.ShippingAddress,
			Comment:         in.Comment,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("%w: create order: %v", ErrOrderPlacementFailed, err)
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return fmt.Errorf("%w: create order items: %v", ErrOrderPlacementFailed, err)
		}

		// 在庫予約。1行でも足りなければ全体rollback。
		for _, ci := range cartItems {
			ok, err := r.Inventory().Reserve(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return fmt.Errorf("%w: reserve: %v", ErrOrderPlacementFailed, err)
			}
			if !ok {
				return ErrInsufficientStock
			}
		}

		if err := r.CartItems().DeleteAllByUserID(ctx, userID); err != nil {
			return fmt.Errorf("%w: clear cart: %v", ErrOrderPlacementFailed, err)
		}

		created := model.Order{
			ID:              orderID,
			UserID:          userID,
			Status:          model.OrderStatusReserved,
			TotalAmount:     total,
			PaymentMethod:   in.PaymentMethod,
			ShippingMethod:  in.ShippingMethod,
			ShippingAddress: in.ShippingAddress,
			Comment:         in.Comment,
			CreatedAt:       now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// MarkPaid はRESERVED→PAID。在庫には触らない（予約済みのため）。
// 既にPAIDなら何もしない。CANCELLEDからは遷移できない。
func (u *OrderUsecase) MarkPaid(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if orderID <= 0 {
		return ErrInvalidInput
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		// 他人の注文は「存在しない扱い」
		if o.UserID != userID {
			return repo.ErrNotFound
		}
		return u.markPaidInTx(ctx, r, orderID)
	})
}

func (u *OrderUsecase) markPaidInTx(ctx context.Context, r repo.TxRepos, orderID int64) error {
	ok, err := r.Orders().TransitionStatus(ctx, orderID, model.OrderStatusReserved, model.OrderStatusPaid, time.Now())
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	// 負けた側。コミット済みの現在状態で判断する。
	cur, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if cur.Status == model.OrderStatusPaid {
		return nil
	}
	u.log.Warn("mark paid lost to a concurrent transition",
		zap.Int64("order_id", orderID),
		zap.String("status", string(cur.Status)),
	)
	return ErrInvalidOrderTransition
}

// CancelMyOrder はユーザー自身によるキャンセル。
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if orderID <= 0 {
		return ErrInvalidInput
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return repo.ErrNotFound
		}
		return u.cancelInTx(ctx, r, orderID)
	})
}

// Cancel は所有チェック無しのキャンセル（掃除タスク・管理者用）。
func (u *OrderUsecase) Cancel(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return ErrInvalidInput
	}
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return u.cancelInTx(ctx, r, orderID)
	})
}

// cancelInTx はRESERVED→CANCELLEDの遷移と在庫戻しを同一トランザクションで行う。
// 条件付きUPDATEに勝った側だけが在庫を戻すので、二重キャンセルでも二重戻しにならない。
func (u *OrderUsecase) cancelInTx(ctx context.Context, r repo.TxRepos, orderID int64) error {
	ok, err := r.Orders().TransitionStatus(ctx, orderID, model.OrderStatusReserved, model.OrderStatusCancelled, time.Now())
	if err != nil {
		return err
	}

	if !ok {
		cur, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if cur.Status == model.OrderStatusCancelled {
			// 既にキャンセル済み。冪等に成功扱い。
			return nil
		}
		u.log.Warn("cancel lost to a concurrent transition",
			zap.Int64("order_id", orderID),
			zap.String("status", string(cur.Status)),
		)
		return ErrInvalidOrderTransition
	}

	// 勝った側が明細ぶんの在庫を戻す
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := r.Inventory().Restock(ctx, it.ProductID, it.Quantity); err != nil {
			return err
		}
	}

	u.log.Info("order cancelled", zap.Int64("order_id", orderID))
	return nil
}

// RepeatOrder は過去の注文の明細を現在のカートに入れ直す。
// 消えた商品はスキップ。在庫を超えるぶんは入れない。
func (u *OrderUsecase) RepeatOrder(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if orderID <= 0 {
		return ErrInvalidInput
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return repo.ErrNotFound
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		for _, it := range items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var existingQty int64
			ci, err := r.CartItems().FindByUserAndProduct(ctx, userID, it.ProductID)
			if err == nil {
				existingQty = ci.Quantity
			} else if !errors.Is(err, repo.ErrNotFound) {
				return err
			}

			addQty := it.Quantity
			if room := p.StockQuantity - existingQty; room < addQty {
				addQty = room
			}
			if addQty <= 0 {
				continue
			}
			if err := r.CartItems().Upsert(ctx, userID, it.ProductID, addQty); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, ErrUnauthorized
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return err
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, ErrUnauthorized
	}
	if orderID <= 0 {
		return OrderOutput{}, ErrInvalidInput
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return repo.ErrNotFound
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:  it.ProductID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   o.PaymentMethod,
		ShippingMethod:  o.ShippingMethod,
		ShippingAddress: o.ShippingAddress,
		Comment:         o.Comment,
		CreatedAt:       o.CreatedAt,
		PaidAt:          o.PaidAt,
		Items:           outItems,
	}
}
