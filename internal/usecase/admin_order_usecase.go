package usecase

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// AdminOrderUsecase は管理者向けの注文操作。
// 遷移そのものはOrderUsecaseと同じガードを通す。
type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders *OrderUsecase
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders *OrderUsecase) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders}
}

type AdminUpdateOrderStatusInput struct {
	Status string `json:"status"`
}

type AdminOrderListResponse struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}

	var out AdminOrderListResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return err
		}

		out.Total = total
		out.Items = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return AdminOrderListResponse{}, err
	}
	return out, nil
}

// UpdateStatus は管理者によるステータス変更。
// CANCELLEDへの変更は在庫戻しを伴う。終端からの変更はできない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID int64, in AdminUpdateOrderStatusInput) error {
	if orderID <= 0 {
		return ErrInvalidInput
	}

	switch model.OrderStatus(strings.TrimSpace(in.Status)) {
	case model.OrderStatusPaid:
		return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
				return err
			}
			return u.orders.markPaidInTx(ctx, r, orderID)
		})
	case model.OrderStatusCancelled:
		return u.orders.Cancel(ctx, orderID)
	default:
		return ErrInvalidInput
	}
}
