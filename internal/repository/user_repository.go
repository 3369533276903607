package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	ListAdmin(ctx context.Context, page int, limit int) ([]model.User, int64, error)
}
