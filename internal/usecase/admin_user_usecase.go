package usecase

import (
	"context"

	repo "storefront/internal/repository"
)

type AdminUserUsecase struct {
	userRepo repo.UserRepository
}

func NewAdminUserUsecase(userRepo repo.UserRepository) *AdminUserUsecase {
	return &AdminUserUsecase{userRepo: userRepo}
}

type AdminUserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
}

func (u *AdminUserUsecase) List(ctx context.Context, page int, limit int) (AdminUserListResponse, error) {
	users, total, err := u.userRepo.ListAdmin(ctx, page, limit)
	if err != nil {
		return AdminUserListResponse{}, err
	}

	out := AdminUserListResponse{Total: total, Items: make([]UserResponse, 0, len(users))}
	for _, user := range users {
		out.Items = append(out.Items, toUserResponse(user))
	}
	return out, nil
}
