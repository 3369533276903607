package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type FavoriteUsecase struct {
	tx           repo.TransactionManager
	favoriteRepo repo.FavoriteRepository
	productRepo  repo.ProductRepository
}

func NewFavoriteUsecase(
	tx repo.TransactionManager,
	favoriteRepo repo.FavoriteRepository,
	productRepo repo.ProductRepository,
) *FavoriteUsecase {
	return &FavoriteUsecase{
		tx:           tx,
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

type FavoriteItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
}

// Toggle は入っていなければ追加、入っていれば削除。
// 追加されたらtrueを返す。
func (u *FavoriteUsecase) Toggle(ctx context.Context, userID int64, productID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrUnauthorized
	}
	if productID <= 0 {
		return false, ErrInvalidInput
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		return false, err
	}

	exists, err := u.favoriteRepo.Exists(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := u.favoriteRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return false, err
		}
		return false, nil
	}

	if err := u.favoriteRepo.Create(ctx, model.Favorite{UserID: userID, ProductID: productID}); err != nil {
		return false, err
	}
	return true, nil
}

func (u *FavoriteUsecase) List(ctx context.Context, userID int64) ([]FavoriteItemResponse, error) {
	if userID <= 0 {
		return []FavoriteItemResponse{}, ErrUnauthorized
	}

	favs, err := u.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []FavoriteItemResponse{}, err
	}

	out := make([]FavoriteItemResponse, 0, len(favs))
	for _, f := range favs {
		p, err := u.productRepo.FindByID(ctx, f.ProductID)
		if err != nil {
			continue
		}
		out = append(out, FavoriteItemResponse{
			ProductID: p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Price:     p.Price,
		})
	}
	return out, nil
}

// MergeGuestFavorites はログイン時にセッションの「お気に入り」をDBへ取り込む。
// 一意制約があるので既存と重なっても増えない。
func (u *FavoriteUsecase) MergeGuestFavorites(ctx context.Context, userID int64, productIDs []int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if len(productIDs) == 0 {
		return nil
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, pid := range productIDs {
			if pid <= 0 {
				continue
			}
			if _, err := r.Products().FindByID(ctx, pid); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					continue
				}
				return err
			}
			if err := r.Favorites().Create(ctx, model.Favorite{UserID: userID, ProductID: pid}); err != nil {
				return err
			}
		}
		return nil
	})
}
