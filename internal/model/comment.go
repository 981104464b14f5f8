package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a node of a blog's comment tree. Child linkage is
// normalized onto ParentID; the ordered children id list served to
// clients is derived per query, so the parent/children invariant holds
// by construction.
type Comment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`

	BlogID       uuid.UUID `gorm:"type:uuid;not null;index" json:"blog_id"`
	Blog         Blog      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BlogAuthorID uuid.UUID `gorm:"type:uuid;not null" json:"blog_author"`

	CommentedByID uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	CommentedBy   User      `gorm:"foreignKey:CommentedByID;constraint:OnDelete:CASCADE" json:"commented_by,omitempty"`

	Comment string `gorm:"type:text;not null" json:"comment"`

	// IsReply is true exactly when ParentID is set.
	IsReply  bool       `gorm:"default:false;index" json:"isReply"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent,omitempty"`
	Parent   *Comment   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`

	CommentedAt time.Time `gorm:"autoCreateTime;index" json:"commentedAt"`

	// Children carries the derived ids of direct replies in responses.
	Children []uuid.UUID `gorm:"-" json:"children"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
