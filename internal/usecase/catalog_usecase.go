package usecase

import (
	"context"
	"errors"
	"time"

	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogUsecase は公開側の閲覧（カテゴリ→サブカテゴリ→商品）。
type CatalogUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
}

func NewCatalogUsecase(categoryRepo repo.CategoryRepository, productRepo repo.ProductRepository) *CatalogUsecase {
	return &CatalogUsecase{categoryRepo: categoryRepo, productRepo: productRepo}
}

type SubCategoryResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Picture string `json:"picture"`
}

type CategoryResponse struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	Slug          string                `json:"slug"`
	Picture       string                `json:"picture"`
	SubCategories []SubCategoryResponse `json:"subcategories"`
}

type ProductListItem struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	InStock   bool            `json:"in_stock"`
	MainImage string          `json:"main_image"`
}

type ProductListResponse struct {
	Items []ProductListItem `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type ProductImageResponse struct {
	ImagePath string `json:"image_path"`
	IsMain    bool   `json:"is_main"`
}

type ProductDetailResponse struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Slug          string                 `json:"slug"`
	Description   string                 `json:"description"`
	Price         decimal.Decimal        `json:"price"`
	OldPrice      *decimal.Decimal       `json:"old_price"`
	StockQuantity int64                  `json:"stock_quantity"`
	SKU           string                 `json:"sku"`
	Weight        *float64               `json:"weight"`
	Images        []ProductImageResponse `json:"images"`
	CreatedAt     time.Time              `json:"created_at"`
}

// ListCategories はサブカテゴリ付きのカテゴリ一覧。
func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	cats, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return []CategoryResponse{}, err
	}

	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		subs, err := u.categoryRepo.ListSubByCategoryID(ctx, c.ID)
		if err != nil {
			return []CategoryResponse{}, err
		}
		subOut := make([]SubCategoryResponse, 0, len(subs))
		for _, s := range subs {
			subOut = append(subOut, SubCategoryResponse{ID: s.ID, Name: s.Name, Slug: s.Slug, Picture: s.Picture})
		}
		out = append(out, CategoryResponse{
			ID: c.ID, Name: c.Name, Slug: c.Slug, Picture: c.Picture,
			SubCategories: subOut,
		})
	}
	return out, nil
}

// ListProducts はサブカテゴリの商品一覧（並び替え・ページングつき）。
func (u *CatalogUsecase) ListProducts(ctx context.Context, subCategorySlug string, sort string, page int, limit int) (ProductListResponse, error) {
	if subCategorySlug != "" {
		if _, err := u.categoryRepo.FindSubBySlug(ctx, subCategorySlug); err != nil {
			return ProductListResponse{}, err
		}
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		SubCategorySlug: subCategorySlug,
		Page:            page,
		Limit:           limit,
		Sort:            sort,
	})
	if err != nil {
		return ProductListResponse{}, err
	}

	out := make([]ProductListItem, 0, len(items))
	for _, p := range items {
		out = append(out, ProductListItem{
			ID:        p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Price:     p.Price,
			InStock:   p.StockQuantity > 0,
			MainImage: u.mainImagePath(ctx, p.ID),
		})
	}

	return ProductListResponse{Items: out, Total: total, Page: page, Limit: limit}, nil
}

// GetProduct はslugで商品詳細（画像・旧価格つき）。
func (u *CatalogUsecase) GetProduct(ctx context.Context, slug string) (ProductDetailResponse, error) {
	if slug == "" {
		return ProductDetailResponse{}, ErrInvalidInput
	}

	p, err := u.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return ProductDetailResponse{}, err
	}

	images, err := u.productRepo.ListImages(ctx, p.ID)
	if err != nil {
		return ProductDetailResponse{}, err
	}
	imgOut := make([]ProductImageResponse, 0, len(images))
	for _, img := range images {
		imgOut = append(imgOut, ProductImageResponse{ImagePath: img.ImagePath, IsMain: img.IsMain})
	}

	// 直近の変更前価格（無ければnil）
	var oldPrice *decimal.Decimal
	ph, err := u.productRepo.LatestPriceHistory(ctx, p.ID)
	if err == nil {
		oldPrice = &ph.Price
	} else if !errors.Is(err, repo.ErrNotFound) {
		return ProductDetailResponse{}, err
	}

	return ProductDetailResponse{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		OldPrice:      oldPrice,
		StockQuantity: p.StockQuantity,
		SKU:           p.SKU,
		Weight:        p.Weight,
		Images:        imgOut,
		CreatedAt:     p.CreatedAt,
	}, nil
}

func (u *CatalogUsecase) mainImagePath(ctx context.Context, productID int64) string {
	images, err := u.productRepo.ListImages(ctx, productID)
	if err != nil || len(images) == 0 {
		return ""
	}
	for _, img := range images {
		if img.IsMain {
			return img.ImagePath
		}
	}
	return images[0].ImagePath
}
