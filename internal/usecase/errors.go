package usecase

import "errors"

var (
	// 在庫不足。チェックアウトは中断され、何も永続化されない。
	ErrInsufficientStock = errors.New("insufficient stock")

	// 注文確定トランザクション中の失敗。全体rollback済み。
	ErrOrderPlacementFailed = errors.New("order placement failed")

	// 終端状態（PAID/CANCELLED）からの遷移要求。
	ErrInvalidOrderTransition = errors.New("invalid order transition")

	// カートへの追加が現在庫を超える
	ErrOutOfStock = errors.New("out of stock")

	// カートが空のまま注文しようとした
	ErrCartEmpty = errors.New("cart empty")

	// 会員登録の一意制約違反（項目別に出し分ける）
	ErrEmailTaken = errors.New("email already taken")
	ErrPhoneTaken = errors.New("phone already taken")

	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)
