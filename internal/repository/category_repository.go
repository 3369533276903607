package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CategoryRepository interface {
	ListAll(ctx context.Context) ([]model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	DeleteBySlug(ctx context.Context, slug string) error

	ListSubByCategoryID(ctx context.Context, categoryID int64) ([]model.SubCategory, error)
	FindSubBySlug(ctx context.Context, slug string) (model.SubCategory, error)
	CreateSub(ctx context.Context, sc model.SubCategory) (model.SubCategory, error)
	UpdateSub(ctx context.Context, sc model.SubCategory) error
	DeleteSubBySlug(ctx context.Context, slug string) error
}
