package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Fullname     string    `gorm:"size:128;not null" json:"fullname"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Bio          string    `gorm:"size:200" json:"bio"`
	ProfileImg   string    `gorm:"type:text" json:"profile_img"`

	// Account counters maintained by the blog service.
	TotalPosts int64 `gorm:"default:0" json:"total_posts"`
	TotalReads int64 `gorm:"default:0" json:"total_reads"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}
