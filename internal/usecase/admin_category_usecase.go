package usecase

import (
	"context"
	"fmt"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/go-playground/validator/v10"
)

type AdminCategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	validate     *validator.Validate
}

func NewAdminCategoryUsecase(categoryRepo repo.CategoryRepository) *AdminCategoryUsecase {
	return &AdminCategoryUsecase{categoryRepo: categoryRepo, validate: validator.New()}
}

type CategoryInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Slug    string `json:"slug" validate:"required,max=255"`
	Picture string `json:"picture" validate:"required,max=255"`
}

type SubCategoryInput struct {
	CategorySlug string `json:"category_slug" validate:"required"`
	Name         string `json:"name" validate:"required,max=255"`
	Slug         string `json:"slug" validate:"required,max=255"`
	Picture      string `json:"picture" validate:"required,max=255"`
}

func (u *AdminCategoryUsecase) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	if err := u.validate.Struct(in); err != nil {
		return model.Category{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return u.categoryRepo.Create(ctx, model.Category{
		Name:    in.Name,
		Slug:    in.Slug,
		Picture: in.Picture,
	})
}

func (u *AdminCategoryUsecase) UpdateCategory(ctx context.Context, slug string, in CategoryInput) error {
	if err := u.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	c, err := u.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	c.Name = in.Name
	c.Slug = in.Slug
	c.Picture = in.Picture
	return u.categoryRepo.Update(ctx, c)
}

func (u *AdminCategoryUsecase) DeleteCategory(ctx context.Context, slug string) error {
	return u.categoryRepo.DeleteBySlug(ctx, slug)
}

func (u *AdminCategoryUsecase) CreateSubCategory(ctx context.Context, in SubCategoryInput) (model.SubCategory, error) {
	if err := u.validate.Struct(in); err != nil {
		return model.SubCategory{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cat, err := u.categoryRepo.FindBySlug(ctx, in.CategorySlug)
	if err != nil {
		return model.SubCategory{}, err
	}
	return u.categoryRepo.CreateSub(ctx, model.SubCategory{
		CategoryID: cat.ID,
		Name:       in.Name,
		Slug:       in.Slug,
		Picture:    in.Picture,
	})
}

func (u *AdminCategoryUsecase) UpdateSubCategory(ctx context.Context, slug string, in SubCategoryInput) error {
	if err := u.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	sc, err := u.categoryRepo.FindSubBySlug(ctx, slug)
	if err != nil {
		return err
	}
	sc.Name = in.Name
	sc.Slug = in.Slug
	sc.Picture = in.Picture
	return u.categoryRepo.UpdateSub(ctx, sc)
}

func (u *AdminCategoryUsecase) DeleteSubCategory(ctx context.Context, slug string) error {
	return u.categoryRepo.DeleteSubBySlug(ctx, slug)
}
