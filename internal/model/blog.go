package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Blog struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlogID string    `gorm:"size:255;uniqueIndex;not null" json:"blog_id"`

	Title  string `gorm:"size:255;not null" json:"title"`
	Des    string `gorm:"size:200" json:"des"`
	Banner string `gorm:"type:text" json:"banner"`

	// Content is an opaque ordered block list produced by the editor.
	// It is stored and served verbatim, never validated or rendered here.
	Content json.RawMessage `gorm:"type:jsonb" json:"content"`
	Tags    []string        `gorm:"serializer:json;type:jsonb" json:"tags"`

	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`

	Draft bool `gorm:"default:false;index" json:"draft"`

	// Activity counters. total_parent_comments counts only top-level
	// comments; total_comments counts the whole tree.
	TotalLikes          int64 `gorm:"default:0" json:"total_likes"`
	TotalComments       int64 `gorm:"default:0" json:"total_comments"`
	TotalParentComments int64 `gorm:"default:0" json:"total_parent_comments"`
	TotalReads          int64 `gorm:"default:0" json:"total_reads"`

	PublishedAt time.Time `gorm:"autoCreateTime;index" json:"publishedAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	return
}
