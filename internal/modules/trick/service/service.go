package trick

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/internal/modules/trick/dto"
	"anoa.com/recipeshare/internal/modules/trick/repository"
	"anoa.com/recipeshare/pkg/apperror"
	"anoa.com/recipeshare/pkg/cache"
	"github.com/google/uuid"
)

type TrickService interface {
	CreateTrick(ctx context.Context, req dto.CreateTrickRequest) (*dto.TrickResponse, error)
	GetTrick(ctx context.Context, id uuid.UUID) (*dto.TrickResponse, error)
	GetPublishedTricks(ctx context.Context) ([]dto.TrickResponse, error)
	UpdateTrick(ctx context.Context, id uuid.UUID, req dto.UpdateTrickRequest) (*dto.TrickResponse, error)
	DeleteTrick(ctx context.Context, id uuid.UUID) error
}

type trickService struct {
	repo      repository.TrickRepository
	listCache *cache.ListCache
	now       func() time.Time
}

func NewTrickService(repo repository.TrickRepository, listCache *cache.ListCache) TrickService {
	return &trickService{repo: repo, listCache: listCache, now: time.Now}
}

func (s *trickService) CreateTrick(ctx context.Context, req dto.CreateTrickRequest) (*dto.TrickResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", apperror.ErrInvalidInput)
	}

	trick := &entity.Trick{
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		PublishStatus: entity.NormalizeStatus(req.PublishStatus),
		PublishedAt:   req.PublishedAt,
		UserID:        userID,
	}
	if trick.Title == "" {
		return nil, apperror.Validation("title is required")
	}
	s.stampPublished(trick)

	if err := s.repo.Create(ctx, trick); err != nil {
		return nil, err
	}

	if trick.PublishStatus == entity.StatusPublished {
		cache.InvalidateAll(ctx, s.listCache)
	}
	return toResponse(trick), nil
}

func (s *trickService) GetTrick(ctx context.Context, id uuid.UUID) (*dto.TrickResponse, error) {
	row, err := s.repo.FindWithAuthor(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	res := fromRow(*row)
	return &res, nil
}

func (s *trickService) GetPublishedTricks(ctx context.Context) ([]dto.TrickResponse, error) {
	return cache.Remember(ctx, s.listCache, s.listCache.Key("published"), func(ctx context.Context) ([]dto.TrickResponse, error) {
		rows, err := s.repo.FindPublished(ctx)
		if err != nil {
			return nil, err
		}

		tricks := make([]dto.TrickResponse, 0, len(rows))
		for _, row := range rows {
			tricks = append(tricks, fromRow(row))
		}
		return tricks, nil
	})
}

func (s *trickService) UpdateTrick(ctx context.Context, id uuid.UUID, req dto.UpdateTrickRequest) (*dto.TrickResponse, error) {
	trick, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Title != nil {
		if trick.Title = strings.TrimSpace(*req.Title); trick.Title == "" {
			return nil, apperror.Validation("title must not be empty")
		}
	}
	if req.Description != nil {
		trick.Description = strings.TrimSpace(*req.Description)
	}
	if req.PublishStatus != nil {
		trick.PublishStatus = entity.NormalizeStatus(*req.PublishStatus)
	}
	if req.PublishedAt != nil && !req.PublishedAt.IsZero() {
		trick.PublishedAt = req.PublishedAt
	}
	s.stampPublished(trick)

	if err := s.repo.Update(ctx, trick); err != nil {
		return nil, notFound(err)
	}

	cache.InvalidateAll(ctx, s.listCache)
	return toResponse(trick), nil
}

func (s *trickService) DeleteTrick(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}

	cache.InvalidateAll(ctx, s.listCache)
	return nil
}

func (s *trickService) stampPublished(trick *entity.Trick) {
	if trick.PublishedAt != nil && trick.PublishedAt.IsZero() {
		trick.PublishedAt = nil
	}
	if trick.PublishStatus == entity.StatusPublished && trick.PublishedAt == nil {
		now := s.now().UTC()
		trick.PublishedAt = &now
	}
}

func notFound(err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("trick not found: %w", apperror.ErrNotFound)
	}
	return err
}

func toResponse(t *entity.Trick) *dto.TrickResponse {
	return &dto.TrickResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
		PublishedAt:   t.PublishedAt,
		PublishStatus: t.PublishStatus,
		UserID:        t.UserID,
	}
}

func fromRow(row repository.TrickWithAuthor) dto.TrickResponse {
	return dto.TrickResponse{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		CreatedAt:     row.CreatedAt,
		PublishedAt:   row.PublishedAt,
		PublishStatus: row.PublishStatus,
		UserID:        row.UserID,
		Username:      row.Username,
	}
}
