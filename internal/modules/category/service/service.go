package category

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/internal/modules/category/dto"
	"anoa.com/recipeshare/internal/modules/category/repository"
	"anoa.com/recipeshare/pkg/apperror"
	"anoa.com/recipeshare/pkg/cache"
	"anoa.com/recipeshare/pkg/sanitizer"
	"anoa.com/recipeshare/pkg/storage"
	"github.com/google/uuid"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo         repository.CategoryRepository
	imageStorage storage.ImageStorage
	recipeCache  cache.Invalidator
}

func NewCategoryService(repo repository.CategoryRepository, imageStorage storage.ImageStorage, recipeCache cache.Invalidator) CategoryService {
	return &categoryService{repo: repo, imageStorage: imageStorage, recipeCache: recipeCache}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name, err := sanitizer.Name("name", req.Name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	existing, _ := s.repo.FindByName(ctx, name)
	if existing != nil {
		return nil, fmt.Errorf("category with name %s already exists: %w", name, apperror.ErrAlreadyExists)
	}

	category := &entity.Category{Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		// lost a race with a concurrent create
		if errors.Is(err, apperror.ErrAlreadyExists) {
			return nil, fmt.Errorf("category with name %s already exists: %w", name, apperror.ErrAlreadyExists)
		}
		return nil, err
	}

	return toResponse(category), nil
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		res = append(res, *toResponse(cat))
	}
	return res, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toResponse(category), nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	name, err := sanitizer.Name("name", req.Name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	category := &entity.Category{ID: id, Name: name}
	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, apperror.ErrAlreadyExists) {
			return nil, fmt.Errorf("category with name %s already exists: %w", name, apperror.ErrAlreadyExists)
		}
		return nil, notFound(err)
	}

	cache.InvalidateAll(ctx, s.recipeCache)
	return toResponse(category), nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	images, err := s.repo.RecipeImageURLs(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}

	cache.InvalidateAll(ctx, s.recipeCache)
	storage.DeleteImages(ctx, s.imageStorage, images...)
	return nil
}

func notFound(err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("category not found: %w", apperror.ErrNotFound)
	}
	return err
}

func toResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}
}
