package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTrickRequest struct {
	Title         string     `json:"title" binding:"required,max=100"`
	Description   string     `json:"description" binding:"max=2000"`
	PublishStatus string     `json:"publish_status" binding:"max=20"`
	PublishedAt   *time.Time `json:"published_at"`
	UserID        string     `json:"user_id" binding:"required,uuid"`
}

type UpdateTrickRequest struct {
	Title         *string    `json:"title" binding:"omitempty,max=100"`
	Description   *string    `json:"description" binding:"omitempty,max=2000"`
	PublishStatus *string    `json:"publish_status" binding:"omitempty,max=20"`
	PublishedAt   *time.Time `json:"published_at"`
}

type TrickResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	CreatedAt     time.Time  `json:"created_at"`
	PublishedAt   *time.Time `json:"published_at"`
	PublishStatus string     `json:"publish_status"`
	UserID        uuid.UUID  `json:"user_id"`
	Username      string     `json:"username,omitempty"`
}
