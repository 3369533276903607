package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type FavoriteRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.Favorite, error)
	Exists(ctx context.Context, userID int64, productID int64) (bool, error)
	Create(ctx context.Context, f model.Favorite) error
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error
}
