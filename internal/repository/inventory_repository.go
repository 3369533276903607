package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算。足りなければfalse。
	// 注文行の更新と同じトランザクションで呼ぶこと。
	Reserve(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル時）。無条件で加算。
	Restock(ctx context.Context, productID int64, qty int64) error

	// 在庫の現在値を設定（管理者の棚卸し）
	SetStock(ctx context.Context, productID int64, newStock int64) error
}
