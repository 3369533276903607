package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジック。
// カートは(user_id, product_id)の行の集まりで、数量0で行が消える。
type CartUsecase struct {
	tx           repo.TransactionManager
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:           tx,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// GetCart はカート一覧（現在の商品情報と合計金額つき）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrUnauthorized
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}
	return u.buildCartResponse(ctx, items)
}

// Add はカートに1個追加する。
// 追加後の数量が在庫を超えるならErrOutOfStockで何もしない。
// 在庫チェックと加算は1トランザクションで行う。
func (u *CartUsecase) Add(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if productID <= 0 {
		return ErrInvalidInput
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}

		var existingQty int64
		item, err := r.CartItems().FindByUserAndProduct(ctx, userID, productID)
		if err == nil {
			existingQty = item.Quantity
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		if existingQty+1 > p.StockQuantity {
			return ErrOutOfStock
		}

		return r.CartItems().Upsert(ctx, userID, productID, 1)
	})
}

// Remove はカートから1個減らす。数量0になったら行を消す。
func (u *CartUsecase) Remove(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if productID <= 0 {
		return ErrInvalidInput
	}

	item, err := u.cartItemRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return err
	}

	if item.Quantity <= 1 {
		return u.cartItemRepo.DeleteByID(ctx, item.ID)
	}
	return u.cartItemRepo.UpdateQuantity(ctx, item.ID, item.Quantity-1)
}

// MergeGuestCart はログイン時にセッションのカートをDBへ取り込む。
// 1トランザクションで行い、既存行は加算・無ければ新規作成。
// 呼び出し側はマージ後にセッション側を破棄する（二重マージ防止）。
func (u *CartUsecase) MergeGuestCart(ctx context.Context, userID int64, guestItems []model.GuestCartItem) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if len(guestItems) == 0 {
		return nil
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, gi := range guestItems {
			if gi.ProductID <= 0 || gi.Quantity <= 0 {
				continue
			}
			// 消えた商品はスキップ
			if _, err := r.Products().FindByID(ctx, gi.ProductID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					continue
				}
				return err
			}
			if err := r.CartItems().Upsert(ctx, userID, gi.ProductID, gi.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *CartUsecase) buildCartResponse(ctx context.Context, items []model.CartItem) (CartResponse, error) {
	respItems := make([]CartItemResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			// 消えた商品は表示しない
			continue
		}

		respItems = append(respItems, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Slug:      p.Slug,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})

		total = total.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}

	return CartResponse{Items: respItems, Total: total}, nil
}
