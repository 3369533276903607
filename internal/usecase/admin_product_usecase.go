package usecase

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// AdminProductUsecase は商品の管理（作成・編集・削除・在庫設定）。
type AdminProductUsecase struct {
	productRepo   repo.ProductRepository
	categoryRepo  repo.CategoryRepository
	inventoryRepo repo.InventoryRepository
	validate      *validator.Validate
}

func NewAdminProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	inventoryRepo repo.InventoryRepository,
) *AdminProductUsecase {
	return &AdminProductUsecase{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		inventoryRepo: inventoryRepo,
		validate:      validator.New(),
	}
}

// 画像はメインを明示して渡す（並び順から推測しない）
type ProductImageInput struct {
	ImagePath string `json:"image_path" validate:"required,max=255"`
	SortOrder int    `json:"sort_order"`
	IsMain    bool   `json:"is_main"`
}

type CreateProductInput struct {
	CategorySlug    string              `json:"category_slug" validate:"required"`
	SubCategorySlug string              `json:"subcategory_slug" validate:"required"`
	Name            string              `json:"name" validate:"required,max=255"`
	Slug            string              `json:"slug" validate:"required,max=255"`
	Description     string              `json:"description"`
	Price           decimal.Decimal     `json:"price" validate:"required"`
	StockQuantity   int64               `json:"stock_quantity" validate:"gte=0"`
	SKU             string              `json:"sku" validate:"max=64"`
	Weight          *float64            `json:"weight"`
	Images          []ProductImageInput `json:"images"`
}

type UpdateProductInput struct {
	Name        string              `json:"name" validate:"required,max=255"`
	Slug        string              `json:"slug" validate:"required,max=255"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price" validate:"required"`
	SKU         string              `json:"sku" validate:"max=64"`
	Weight      *float64            `json:"weight"`
	Images      []ProductImageInput `json:"images"`
}

type SetStockInput struct {
	StockQuantity int64 `json:"stock_quantity" validate:"gte=0"`
}

func (u *AdminProductUsecase) Create(ctx context.Context, in CreateProductInput) (ProductDetailResponse, error) {
	if err := u.validate.Struct(in); err != nil {
		return ProductDetailResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Price.IsNegative() {
		return ProductDetailResponse{}, fmt.Errorf("%w: negative price", ErrInvalidInput)
	}

	cat, err := u.categoryRepo.FindBySlug(ctx, in.CategorySlug)
	if err != nil {
		return ProductDetailResponse{}, err
	}
	sub, err := u.categoryRepo.FindSubBySlug(ctx, in.SubCategorySlug)
	if err != nil {
		return ProductDetailResponse{}, err
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		CategoryID:    cat.ID,
		SubCategoryID: sub.ID,
		Name:          in.Name,
		Slug:          in.Slug,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		SKU:           in.SKU,
		Weight:        in.Weight,
	})
	if err != nil {
		return ProductDetailResponse{}, err
	}

	if len(in.Images) > 0 {
		if err := u.productRepo.ReplaceImages(ctx, created.ID, toImageModels(in.Images)); err != nil {
			return ProductDetailResponse{}, err
		}
	}

	return u.detail(ctx, created)
}

// Update は商品編集。価格が変わったら旧価格を履歴に積む。
func (u *AdminProductUsecase) Update(ctx context.Context, productSlug string, in UpdateProductInput) (ProductDetailResponse, error) {
	if err := u.validate.Struct(in); err != nil {
		return ProductDetailResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Price.IsNegative() {
		return ProductDetailResponse{}, fmt.Errorf("%w: negative price", ErrInvalidInput)
	}

	p, err := u.productRepo.FindBySlug(ctx, productSlug)
	if err != nil {
		return ProductDetailResponse{}, err
	}

	if !p.Price.Equal(in.Price) {
		if err := u.productRepo.CreatePriceHistory(ctx, model.ProductPrice{
			ProductID: p.ID,
			Price:     p.Price,
			CreatedAt: time.Now(),
		}); err != nil {
			return ProductDetailResponse{}, err
		}
	}

	p.Name = in.Name
	p.Slug = in.Slug
	p.Description = in.Description
	p.Price = in.Price
	p.SKU = in.SKU
	p.Weight = in.Weight

	if err := u.productRepo.Update(ctx, p); err != nil {
		return ProductDetailResponse{}, err
	}

	if in.Images != nil {
		if err := u.productRepo.ReplaceImages(ctx, p.ID, toImageModels(in.Images)); err != nil {
			return ProductDetailResponse{}, err
		}
	}

	return u.detail(ctx, p)
}

func (u *AdminProductUsecase) Delete(ctx context.Context, productSlug string) error {
	p, err := u.productRepo.FindBySlug(ctx, productSlug)
	if err != nil {
		return err
	}
	return u.productRepo.SoftDelete(ctx, p.ID)
}

// SetStock は在庫の絶対値を設定する（棚卸し）。
func (u *AdminProductUsecase) SetStock(ctx context.Context, productSlug string, in SetStockInput) error {
	if err := u.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p, err := u.productRepo.FindBySlug(ctx, productSlug)
	if err != nil {
		return err
	}
	return u.inventoryRepo.SetStock(ctx, p.ID, in.StockQuantity)
}

func (u *AdminProductUsecase) detail(ctx context.Context, p model.Product) (ProductDetailResponse, error) {
	images, err := u.productRepo.ListImages(ctx, p.ID)
	if err != nil {
		return ProductDetailResponse{}, err
	}
	imgOut := make([]ProductImageResponse, 0, len(images))
	for _, img := range images {
		imgOut = append(imgOut, ProductImageResponse{ImagePath: img.ImagePath, IsMain: img.IsMain})
	}

	return ProductDetailResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		SKU:           p.SKU,
		Weight:        p.Weight,
		Images:        imgOut,
		CreatedAt:     p.CreatedAt,
	}, nil
}

func toImageModels(in []ProductImageInput) []model.ProductImage {
	out := make([]model.ProductImage, 0, len(in))
	for _, img := range in {
		out = append(out, model.ProductImage{
			ImagePath: img.ImagePath,
			SortOrder: img.SortOrder,
			IsMain:    img.IsMain,
		})
	}
	// メイン指定が無ければ先頭をメインにする
	hasMain := false
	for _, img := range out {
		if img.IsMain {
			hasMain = true
			break
		}
	}
	if !hasMain && len(out) > 0 {
		out[0].IsMain = true
	}
	return out
}
