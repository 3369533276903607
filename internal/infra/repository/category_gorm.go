package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	var items []model.Category
	if err := r.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return []model.Category{}, err
	}
	return items, nil
}

func (r *CategoryGormRepository) FindBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *CategoryGormRepository) Update(ctx context.Context, c model.Category) error {
	res := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":    c.Name,
			"slug":    c.Slug,
			"picture": c.Picture,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カテゴリ配下のサブカテゴリも一緒に消す
func (r *CategoryGormRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Category
		if err := tx.Where("slug = ?", slug).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}
		if err := tx.Where("category_id = ?", c.ID).Delete(&model.SubCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

func (r *CategoryGormRepository) ListSubByCategoryID(ctx context.Context, categoryID int64) ([]model.SubCategory, error) {
	var items []model.SubCategory
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.SubCategory{}, err
	}
	return items, nil
}

func (r *CategoryGormRepository) FindSubBySlug(ctx context.Context, slug string) (model.SubCategory, error) {
	var sc model.SubCategory
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&sc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SubCategory{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SubCategory{}, err
	}
	return sc, nil
}

func (r *CategoryGormRepository) CreateSub(ctx context.Context, sc model.SubCategory) (model.SubCategory, error) {
	if err := r.db.WithContext(ctx).Create(&sc).Error; err != nil {
		return model.SubCategory{}, err
	}
	return sc, nil
}

func (r *CategoryGormRepository) UpdateSub(ctx context.Context, sc model.SubCategory) error {
	res := r.db.WithContext(ctx).
		Model(&model.SubCategory{}).
		Where("id = ?", sc.ID).
		Updates(map[string]interface{}{
			"name":    sc.Name,
			"slug":    sc.Slug,
			"picture": sc.Picture,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CategoryGormRepository) DeleteSubBySlug(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&model.SubCategory{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
