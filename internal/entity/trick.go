package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Trick struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string     `gorm:"size:100;not null" json:"title"`
	Description   string     `gorm:"size:2000" json:"description"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index:idx_tricks_published,priority:2" json:"created_at"`
	PublishedAt   *time.Time `json:"published_at"`
	PublishStatus string     `gorm:"size:20;not null;default:draft;index:idx_tricks_published,priority:1" json:"publish_status"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
}

func (t *Trick) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}
