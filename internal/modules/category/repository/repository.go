package repository

import (
	"context"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindByName(ctx context.Context, name string) (*entity.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindAll(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// RecipeImageURLs lists the hosted images of the category's recipes.
	RecipeImageURLs(ctx context.Context, id uuid.UUID) ([]string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return apperror.FromDB(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &category, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return categories, nil
}

// Update renames the category. Only the name column is written.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Category{}).
		Where("id = ?", category.ID).
		Update("name", category.Name)
	if res.Error != nil {
		return apperror.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) RecipeImageURLs(ctx context.Context, id uuid.UUID) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Model(&entity.Recipe{}).
		Where("category_id = ? AND image_url <> ''", id).
		Pluck("image_url", &urls).Error
	return urls, apperror.FromDB(err)
}

// Delete removes the category; its recipes go with it through the FK cascade.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id)
	if res.Error != nil {
		return apperror.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
