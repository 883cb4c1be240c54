package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Publish states recognised by the listing endpoints. Any other value is
// stored as given and treated like a draft.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// NormalizeStatus trims and lowercases s, defaulting to draft.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusDraft
	}
	return s
}

type Recipe struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string       `gorm:"size:100;not null" json:"title"`
	Description   string       `gorm:"size:500" json:"description"`
	PrepTime      string       `gorm:"size:45;not null" json:"prep_time"`
	Servings      int          `gorm:"not null" json:"servings"`
	ImageURL      string       `gorm:"type:text" json:"image"`
	CreatedAt     time.Time    `gorm:"autoCreateTime;index:idx_recipes_published,priority:2" json:"created_at"`
	PublishedAt   *time.Time   `json:"published_at"`
	PublishStatus string       `gorm:"size:20;not null;default:draft;index:idx_recipes_published,priority:1" json:"publish_status"`
	CategoryID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"category_id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	Ingredients   []Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Steps         []Step       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

// Ingredient and Step rows keep the index they were submitted at so reads
// return them in the author's order.
type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_ingredients_recipe_position,priority:1" json:"recipe_id"`
	Position    int       `gorm:"not null;index:idx_ingredients_recipe_position,priority:2" json:"position"`
	Description string    `gorm:"size:255;not null" json:"description"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}

type Step struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_steps_recipe_position,priority:1" json:"recipe_id"`
	Position    int       `gorm:"not null;index:idx_steps_recipe_position,priority:2" json:"position"`
	Description string    `gorm:"size:1000;not null" json:"description"`
}

func (s *Step) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}
