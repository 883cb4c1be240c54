package repository

import (
	"context"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// RecipeImageURLs lists the hosted images of the user's recipes.
	RecipeImageURLs(ctx context.Context, id uuid.UUID) ([]string, error)
	// Delete removes the user; the schema cascades to owned recipes and tricks.
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return apperror.FromDB(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &user, nil
}

func (r *userRepository) RecipeImageURLs(ctx context.Context, id uuid.UUID) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Model(&entity.Recipe{}).
		Where("user_id = ? AND image_url <> ''", id).
		Pluck("image_url", &urls).Error
	return urls, apperror.FromDB(err)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id)
	if res.Error != nil {
		return apperror.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
