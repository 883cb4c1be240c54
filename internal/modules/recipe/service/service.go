package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/internal/modules/recipe/dto"
	"anoa.com/recipeshare/internal/modules/recipe/repository"
	"anoa.com/recipeshare/pkg/apperror"
	"anoa.com/recipeshare/pkg/cache"
	"anoa.com/recipeshare/pkg/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RecipeService interface {
	CreateRecipe(ctx context.Context, req dto.CreateRecipeRequest, image *dto.ImageFile) (*dto.RecipeResponse, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*dto.RecipeDetailResponse, error)
	GetPublishedRecipes(ctx context.Context, categoryID *uuid.UUID) ([]dto.RecipeListItem, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, req dto.UpdateRecipeRequest) (*dto.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

type recipeService struct {
	repo         repository.RecipeRepository
	imageStorage storage.ImageStorage
	uploadFolder string
	listCache    *cache.ListCache
	now          func() time.Time
}

func NewRecipeService(repo repository.RecipeRepository, imageStorage storage.ImageStorage, uploadFolder string, listCache *cache.ListCache) RecipeService {
	return &recipeService{
		repo:         repo,
		imageStorage: imageStorage,
		uploadFolder: uploadFolder,
		listCache:    listCache,
		now:          time.Now,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req dto.CreateRecipeRequest, image *dto.ImageFile) (*dto.RecipeResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", apperror.ErrInvalidInput)
	}

	category, err := categoryRef(req.CategoryID, req.CategoryName)
	if err != nil {
		return nil, err
	}

	recipe := &entity.Recipe{
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		PrepTime:      strings.TrimSpace(req.PrepTime),
		Servings:      req.Servings,
		ImageURL:      strings.TrimSpace(req.Image),
		PublishStatus: entity.NormalizeStatus(req.PublishStatus),
		PublishedAt:   nonZero(req.PublishedAt),
		UserID:        userID,
	}
	if recipe.Title == "" || recipe.PrepTime == "" {
		return nil, apperror.Validation("title and prep_time are required")
	}
	if recipe.Servings <= 0 {
		return nil, apperror.Validation("servings must be greater than 0")
	}
	s.stampPublished(recipe)

	ingredients, steps := req.Ingredients, req.Steps
	if err := requireLines("ingredients", ingredients); err != nil {
		return nil, err
	}
	if err := requireLines("steps", steps); err != nil {
		return nil, err
	}

	uploaded := false
	if image != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		recipe.ImageURL = url
		uploaded = true
	}

	if err := s.repo.Create(ctx, recipe, category, ingredients, steps); err != nil {
		if uploaded {
			s.deleteImage(ctx, recipe.ImageURL)
		}
		return nil, err
	}

	if recipe.PublishStatus == entity.StatusPublished {
		cache.InvalidateAll(ctx, s.listCache)
	}

	logrus.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"user_id":   recipe.UserID,
	}).Info("recipe created")

	return toResponse(recipe), nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*dto.RecipeDetailResponse, error) {
	agg, err := s.repo.FindAggregate(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	res := &dto.RecipeDetailResponse{
		RecipeListItem: toListItem(agg.RecipeWithAuthor),
		Ingredients:    agg.Ingredients,
		Steps:          agg.Steps,
	}
	if res.Ingredients == nil {
		res.Ingredients = []string{}
	}
	if res.Steps == nil {
		res.Steps = []string{}
	}
	return res, nil
}

func (s *recipeService) GetPublishedRecipes(ctx context.Context, categoryID *uuid.UUID) ([]dto.RecipeListItem, error) {
	scope := "all"
	if categoryID != nil {
		scope = categoryID.String()
	}

	return cache.Remember(ctx, s.listCache, s.listCache.Key("published", scope), func(ctx context.Context) ([]dto.RecipeListItem, error) {
		rows, err := s.repo.FindPublished(ctx, categoryID)
		if err != nil {
			return nil, err
		}

		items := make([]dto.RecipeListItem, 0, len(rows))
		for _, row := range rows {
			items = append(items, toListItem(row))
		}
		return items, nil
	})
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req dto.UpdateRecipeRequest) (*dto.RecipeResponse, error) {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Title != nil {
		if recipe.Title = strings.TrimSpace(*req.Title); recipe.Title == "" {
			return nil, apperror.Validation("title must not be empty")
		}
	}
	if req.Description != nil {
		recipe.Description = strings.TrimSpace(*req.Description)
	}
	if req.PrepTime != nil {
		if recipe.PrepTime = strings.TrimSpace(*req.PrepTime); recipe.PrepTime == "" {
			return nil, apperror.Validation("prep_time must not be empty")
		}
	}
	if req.Servings != nil {
		if *req.Servings <= 0 {
			return nil, apperror.Validation("servings must be greater than 0")
		}
		recipe.Servings = *req.Servings
	}
	if req.Image != nil {
		recipe.ImageURL = strings.TrimSpace(*req.Image)
	}
	if req.PublishStatus != nil {
		recipe.PublishStatus = entity.NormalizeStatus(*req.PublishStatus)
	}
	if req.PublishedAt != nil {
		recipe.PublishedAt = nonZero(req.PublishedAt)
	}
	s.stampPublished(recipe)

	var category *repository.CategoryRef
	if req.CategoryID != nil || req.CategoryName != nil {
		ref, err := categoryRef(deref(req.CategoryID), deref(req.CategoryName))
		if err != nil {
			return nil, err
		}
		category = &ref
	}

	ingredients, steps := req.Ingredients, req.Steps
	if err := requireLines("ingredients", ingredients); err != nil {
		return nil, err
	}
	if err := requireLines("steps", steps); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, recipe, category, ingredients, steps); err != nil {
		return nil, notFound(err)
	}

	cache.InvalidateAll(ctx, s.listCache)
	return toResponse(recipe), nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}

	cache.InvalidateAll(ctx, s.listCache)

	if recipe.ImageURL != "" {
		s.deleteImage(ctx, recipe.ImageURL)
	}
	return nil
}

func (s *recipeService) uploadImage(ctx context.Context, image *dto.ImageFile) (string, error) {
	if s.imageStorage == nil {
		return "", apperror.Validation("image uploads are disabled, send an image url instead")
	}

	url, err := s.imageStorage.UploadImage(ctx, image.Reader, s.uploadFolder, image.FileName)
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return "", apperror.Validation("image uploads are disabled, send an image url instead")
		}
		logrus.WithError(err).Warn("recipe image upload failed")
		return "", fmt.Errorf("%w: %v", apperror.ErrUpstreamMediaUpload, err)
	}
	return url, nil
}

// deleteImage is best effort; a leftover file on the image host is harmless.
func (s *recipeService) deleteImage(ctx context.Context, url string) {
	storage.DeleteImages(ctx, s.imageStorage, url)
}

func (s *recipeService) stampPublished(recipe *entity.Recipe) {
	if recipe.PublishStatus == entity.StatusPublished && recipe.PublishedAt == nil {
		now := s.now().UTC()
		recipe.PublishedAt = &now
	}
}

func categoryRef(id, name string) (repository.CategoryRef, error) {
	if id = strings.TrimSpace(id); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return repository.CategoryRef{}, fmt.Errorf("invalid category id: %w", apperror.ErrInvalidInput)
		}
		return repository.CategoryRef{ID: &parsed}, nil
	}
	if name = strings.TrimSpace(name); name != "" {
		return repository.CategoryRef{Name: name}, nil
	}
	return repository.CategoryRef{}, apperror.Validation("category_name or category_id is required")
}

// requireLines rejects blank entries. Non-blank entries are stored exactly as
// submitted.
func requireLines(field string, lines []string) error {
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			return apperror.Validation(fmt.Sprintf("%s[%d] must not be empty", field, i))
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("recipe not found: %w", apperror.ErrNotFound)
	}
	return err
}

func nonZero(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toResponse(r *entity.Recipe) *dto.RecipeResponse {
	return &dto.RecipeResponse{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		PrepTime:      r.PrepTime,
		Servings:      r.Servings,
		Image:         r.ImageURL,
		CreatedAt:     r.CreatedAt,
		PublishedAt:   r.PublishedAt,
		PublishStatus: r.PublishStatus,
		CategoryID:    r.CategoryID,
		UserID:        r.UserID,
	}
}

func toListItem(row repository.RecipeWithAuthor) dto.RecipeListItem {
	return dto.RecipeListItem{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		PrepTime:    row.PrepTime,
		Servings:    row.Servings,
		Image:       row.ImageURL,
		CreatedAt:   row.CreatedAt,
		PublishedAt: row.PublishedAt,
		CategoryID:  row.CategoryID,
		UserID:      row.UserID,
		Username:    row.Username,
	}
}
