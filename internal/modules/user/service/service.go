package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/internal/modules/user/dto"
	"anoa.com/recipeshare/internal/modules/user/repository"
	"anoa.com/recipeshare/pkg/apperror"
	"anoa.com/recipeshare/pkg/cache"
	"anoa.com/recipeshare/pkg/sanitizer"
	"anoa.com/recipeshare/pkg/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo         repository.UserRepository
	imageStorage storage.ImageStorage
	hashCost     int
	listCaches   []cache.Invalidator
}

// NewUserService creates the user service. listCaches are dropped whenever a
// user is deleted, since the delete cascades into published listings.
// imageStorage may be nil.
func NewUserService(repo repository.UserRepository, imageStorage storage.ImageStorage, listCaches ...cache.Invalidator) UserService {
	return &userService{
		repo:         repo,
		imageStorage: imageStorage,
		hashCost:     bcrypt.DefaultCost,
		listCaches:   listCaches,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	username, err := sanitizer.Name("username", req.Username)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, apperror.Validation("username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrAlreadyExists) {
			return nil, fmt.Errorf("username or email already taken: %w", apperror.ErrAlreadyExists)
		}
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("user registered")
	return toResponse(user), nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return toResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	images, err := s.repo.RecipeImageURLs(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	cache.InvalidateAll(ctx, s.listCaches...)
	storage.DeleteImages(ctx, s.imageStorage, images...)
	logrus.WithField("user_id", id).Info("user deleted")
	return nil
}

func toResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
