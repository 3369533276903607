package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	SubCategorySlug string
	Page            int
	Limit           int
	Sort            string // price_asc / price_desc / newest
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	// 画像と価格履歴
	ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error)
	ReplaceImages(ctx context.Context, productID int64, images []model.ProductImage) error
	CreatePriceHistory(ctx context.Context, ph model.ProductPrice) error
	LatestPriceHistory(ctx context.Context, productID int64) (model.ProductPrice, error)
}
