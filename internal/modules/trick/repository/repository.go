package repository

import (
	"context"
	"fmt"
	"time"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrickWithAuthor is a trick row joined with its author's username.
type TrickWithAuthor struct {
	ID            uuid.UUID
	Title         string
	Description   string
	CreatedAt     time.Time
	PublishedAt   *time.Time
	PublishStatus string
	UserID        uuid.UUID
	Username      string
}

type TrickRepository interface {
	Create(ctx context.Context, trick *entity.Trick) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trick, error)
	FindWithAuthor(ctx context.Context, id uuid.UUID) (*TrickWithAuthor, error)
	FindPublished(ctx context.Context) ([]TrickWithAuthor, error)
	Update(ctx context.Context, trick *entity.Trick) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type trickRepository struct {
	db *gorm.DB
}

func NewTrickRepository(db *gorm.DB) TrickRepository {
	return &trickRepository{db: db}
}

const selectWithAuthor = "tricks.id, tricks.title, tricks.description, tricks.created_at, " +
	"tricks.published_at, tricks.publish_status, tricks.user_id, users.username"

func (r *trickRepository) Create(ctx context.Context, trick *entity.Trick) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.User{}).Where("id = ?", trick.UserID).Count(&count).Error; err != nil {
			return apperror.FromDB(err)
		}
		if count == 0 {
			return fmt.Errorf("user %s: %w", trick.UserID, apperror.ErrForeignKeyViolation)
		}

		return apperror.FromDB(tx.Create(trick).Error)
	})
}

func (r *trickRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trick, error) {
	var trick entity.Trick
	if err := r.db.WithContext(ctx).First(&trick, "id = ?", id).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &trick, nil
}

func (r *trickRepository) FindWithAuthor(ctx context.Context, id uuid.UUID) (*TrickWithAuthor, error) {
	var row TrickWithAuthor
	if err := r.db.WithContext(ctx).
		Table("tricks").
		Select(selectWithAuthor).
		Joins("JOIN users ON users.id = tricks.user_id").
		Where("tricks.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &row, nil
}

func (r *trickRepository) FindPublished(ctx context.Context) ([]TrickWithAuthor, error) {
	rows := []TrickWithAuthor{}
	if err := r.db.WithContext(ctx).
		Table("tricks").
		Select(selectWithAuthor).
		Joins("JOIN users ON users.id = tricks.user_id").
		Where("tricks.publish_status = ?", entity.StatusPublished).
		Order("tricks.created_at DESC").
		Order("tricks.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return rows, nil
}

func (r *trickRepository) Update(ctx context.Context, trick *entity.Trick) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Trick{}).
		Where("id = ?", trick.ID).
		Select("title", "description", "published_at", "publish_status").
		Updates(trick)
	if res.Error != nil {
		return apperror.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *trickRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Trick{}, "id = ?", id)
	if res.Error != nil {
		return apperror.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
