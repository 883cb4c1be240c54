package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// ImageFile is an uploaded recipe photo waiting to be sent to the image host.
type ImageFile struct {
	Reader   io.Reader
	FileName string
}

// CreateRecipeRequest binds from JSON or from a multipart form. In a form the
// lists are repeated "ingredients" and "steps" fields and the photo is the
// "image" file part; a plain "image" value is taken as an already hosted URL.
type CreateRecipeRequest struct {
	Title         string     `json:"title" form:"title" binding:"required,max=100"`
	Description   string     `json:"description" form:"description" binding:"max=500"`
	PrepTime      string     `json:"prep_time" form:"prep_time" binding:"required,max=45"`
	Servings      int        `json:"servings" form:"servings" binding:"required,gt=0"`
	Image         string     `json:"image" form:"image"`
	PublishStatus string     `json:"publish_status" form:"publish_status" binding:"max=20"`
	PublishedAt   *time.Time `json:"published_at" form:"published_at"`
	CategoryName  string     `json:"category_name" form:"category_name" binding:"required_without=CategoryID,max=45"`
	CategoryID    string     `json:"category_id" form:"category_id" binding:"omitempty,uuid"`
	UserID        string     `json:"user_id" form:"user_id" binding:"required,uuid"`
	Ingredients   []string   `json:"ingredients" form:"ingredients" binding:"dive,required,max=255"`
	Steps         []string   `json:"steps" form:"steps" binding:"dive,required,max=1000"`
}

// UpdateRecipeRequest changes only the fields present in the body. A present
// ingredients or steps list replaces the stored one entirely.
type UpdateRecipeRequest struct {
	Title         *string    `json:"title" binding:"omitempty,max=100"`
	Description   *string    `json:"description" binding:"omitempty,max=500"`
	PrepTime      *string    `json:"prep_time" binding:"omitempty,max=45"`
	Servings      *int       `json:"servings" binding:"omitempty,gt=0"`
	Image         *string    `json:"image"`
	PublishStatus *string    `json:"publish_status" binding:"omitempty,max=20"`
	PublishedAt   *time.Time `json:"published_at"`
	CategoryName  *string    `json:"category_name" binding:"omitempty,max=45"`
	CategoryID    *string    `json:"category_id" binding:"omitempty,uuid"`
	Ingredients   []string   `json:"ingredients" binding:"dive,required,max=255"`
	Steps         []string   `json:"steps" binding:"dive,required,max=1000"`
}

type RecipeResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	PrepTime      string     `json:"prep_time"`
	Servings      int        `json:"servings"`
	Image         string     `json:"image"`
	CreatedAt     time.Time  `json:"created_at"`
	PublishedAt   *time.Time `json:"published_at"`
	PublishStatus string     `json:"publish_status"`
	CategoryID    uuid.UUID  `json:"category_id"`
	UserID        uuid.UUID  `json:"user_id"`
}

// RecipeListItem is one entry of the published listing.
type RecipeListItem struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PrepTime    string     `json:"prep_time"`
	Servings    int        `json:"servings"`
	Image       string     `json:"image"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at"`
	CategoryID  uuid.UUID  `json:"category_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Username    string     `json:"username"`
}

type RecipeDetailResponse struct {
	RecipeListItem
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}
