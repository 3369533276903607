package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// from状態のときだけtoへ更新する（条件付きUPDATE）。
	// 更新できたらtrue。falseなら他が先に遷移させている。
	TransitionStatus(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus, now time.Time) (bool, error)

	// RESERVEDのままupdated_atがcutoffより古い注文
	ListExpiredReserved(ctx context.Context, cutoff time.Time) ([]model.Order, error)

	// 管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
