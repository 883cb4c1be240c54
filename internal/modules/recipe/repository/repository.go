package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRef names a category either by id or by name. ID wins when set.
type CategoryRef struct {
	ID   *uuid.UUID
	Name string
}

// RecipeWithAuthor is a recipe row joined with its author's username.
type RecipeWithAuthor struct {
	ID            uuid.UUID
	Title         string
	Description   string
	PrepTime      string
	Servings      int
	ImageURL      string
	CreatedAt     time.Time
	PublishedAt   *time.Time
	PublishStatus string
	CategoryID    uuid.UUID
	UserID        uuid.UUID
	Username      string
}

// RecipeAggregate is a recipe with its author and ordered child descriptions.
type RecipeAggregate struct {
	RecipeWithAuthor
	Ingredients []string
	Steps       []string
}

type RecipeRepository interface {
	// Create inserts recipe, its ingredients and its steps in one transaction.
	// The category is resolved first and a miss fails with ErrCategoryNotFound.
	Create(ctx context.Context, recipe *entity.Recipe, category CategoryRef, ingredients, steps []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Recipe, error)
	FindAggregate(ctx context.Context, id uuid.UUID) (*RecipeAggregate, error)
	// FindPublished lists published recipes newest first, optionally within one category.
	FindPublished(ctx context.Context, categoryID *uuid.UUID) ([]RecipeWithAuthor, error)
	// Update writes the recipe columns. A non-nil category moves the recipe and
	// non-nil ingredients or steps replace the stored children.
	Update(ctx context.Context, recipe *entity.Recipe, category *CategoryRef, ingredients, steps []string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

const selectWithAuthor = "recipes.id, recipes.title, recipes.description, recipes.prep_time, recipes.servings, " +
	"recipes.image_url, recipes.created_at, recipes.published_at, recipes.publish_status, " +
	"recipes.category_id, recipes.user_id, users.username"

var updatableColumns = []string{
	"title", "description", "prep_time", "servings", "image_url",
	"published_at", "publish_status", "category_id",
}

func (r *recipeRepository) Create(ctx context.Context, recipe *entity.Recipe, category CategoryRef, ingredients, steps []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryID, err := resolveCategory(tx, category)
		if err != nil {
			return err
		}
		recipe.CategoryID = categoryID

		if err := ensureUser(tx, recipe.UserID); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return apperror.FromDB(err)
		}

		return insertChildren(tx, recipe.ID, ingredients, steps)
	})
}

func (r *recipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Recipe, error) {
	var recipe entity.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &recipe, nil
}

func (r *recipeRepository) FindAggregate(ctx context.Context, id uuid.UUID) (*RecipeAggregate, error) {
	var agg RecipeAggregate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("recipes").
			Select(selectWithAuthor).
			Joins("JOIN users ON users.id = recipes.user_id").
			Where("recipes.id = ?", id).
			Take(&agg.RecipeWithAuthor).Error; err != nil {
			return apperror.FromDB(err)
		}

		if err := tx.Model(&entity.Ingredient{}).
			Where("recipe_id = ?", id).
			Order("position ASC").
			Pluck("description", &agg.Ingredients).Error; err != nil {
			return apperror.FromDB(err)
		}

		if err := tx.Model(&entity.Step{}).
			Where("recipe_id = ?", id).
			Order("position ASC").
			Pluck("description", &agg.Steps).Error; err != nil {
			return apperror.FromDB(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *recipeRepository) FindPublished(ctx context.Context, categoryID *uuid.UUID) ([]RecipeWithAuthor, error) {
	rows := []RecipeWithAuthor{}

	query := r.db.WithContext(ctx).
		Table("recipes").
		Select(selectWithAuthor).
		Joins("JOIN users ON users.id = recipes.user_id").
		Where("recipes.publish_status = ?", entity.StatusPublished)

	if categoryID != nil {
		query = query.Where("recipes.category_id = ?", *categoryID)
	}

	if err := query.Order("recipes.created_at DESC").Order("recipes.id DESC").Scan(&rows).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return rows, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *entity.Recipe, category *CategoryRef, ingredients, steps []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if category != nil {
			categoryID, err := resolveCategory(tx, *category)
			if err != nil {
				return err
			}
			recipe.CategoryID = categoryID
		}

		res := tx.Model(&entity.Recipe{}).
			Where("id = ?", recipe.ID).
			Select(updatableColumns).
			Updates(recipe)
		if res.Error != nil {
			return apperror.FromDB(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}

		if ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entity.Ingredient{}).Error; err != nil {
				return apperror.FromDB(err)
			}
			if err := insertChildren(tx, recipe.ID, ingredients, nil); err != nil {
				return err
			}
		}
		if steps != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entity.Step{}).Error; err != nil {
				return apperror.FromDB(err)
			}
			if err := insertChildren(tx, recipe.ID, nil, steps); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the recipe; ingredients and steps cascade.
func (r *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return apperror.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func resolveCategory(tx *gorm.DB, ref CategoryRef) (uuid.UUID, error) {
	var category entity.Category
	query := tx.Select("id")
	if ref.ID != nil {
		query = query.Where("id = ?", *ref.ID)
	} else {
		query = query.Where("name = ?", ref.Name)
	}

	if err := query.Take(&category).Error; err != nil {
		if err = apperror.FromDB(err); errors.Is(err, apperror.ErrNotFound) {
			if ref.ID != nil {
				return uuid.Nil, fmt.Errorf("category %s: %w", ref.ID, apperror.ErrCategoryNotFound)
			}
			return uuid.Nil, fmt.Errorf("category %q: %w", ref.Name, apperror.ErrCategoryNotFound)
		}
		return uuid.Nil, err
	}
	return category.ID, nil
}

func ensureUser(tx *gorm.DB, userID uuid.UUID) error {
	var count int64
	if err := tx.Model(&entity.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return apperror.FromDB(err)
	}
	if count == 0 {
		return fmt.Errorf("user %s: %w", userID, apperror.ErrForeignKeyViolation)
	}
	return nil
}

// insertChildren stores the descriptions with their input index as position.
func insertChildren(tx *gorm.DB, recipeID uuid.UUID, ingredients, steps []string) error {
	if len(ingredients) > 0 {
		rows := make([]entity.Ingredient, len(ingredients))
		for i, desc := range ingredients {
			rows[i] = entity.Ingredient{RecipeID: recipeID, Position: i, Description: desc}
		}
		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return apperror.FromDB(err)
		}
	}

	if len(steps) > 0 {
		rows := make([]entity.Step, len(steps))
		for i, desc := range steps {
			rows[i] = entity.Step{RecipeID: recipeID, Position: i, Description: desc}
		}
		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return apperror.FromDB(err)
		}
	}
	return nil
}
