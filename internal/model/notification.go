package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationReply   = "reply"
)

// Notification records a like, comment or reply aimed at a user. The
// three variants share one table with a type discriminator; the typed
// constructors below are the only way the services build them, which
// keeps the per-variant field rules honest:
//
//	like    — no comment reference
//	comment — CommentID set
//	reply   — CommentID and RepliedOnCommentID set
type Notification struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Type string    `gorm:"size:16;not null;index" json:"type"`

	BlogID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Blog   Blog      `gorm:"constraint:OnDelete:CASCADE" json:"blog,omitempty"`

	// NotificationForID is the recipient, UserID the actor.
	NotificationForID uuid.UUID `gorm:"type:uuid;not null;index" json:"notification_for"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	User              User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	CommentID          *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Comment            *Comment   `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	RepliedOnCommentID *uuid.UUID `gorm:"type:uuid" json:"-"`
	RepliedOnComment   *Comment   `gorm:"foreignKey:RepliedOnCommentID" json:"replied_on_comment,omitempty"`

	// Reply is attached after creation when the recipient answers a
	// comment notification straight from the notifications page. It is
	// unset again if that reply comment is deleted.
	ReplyID *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Reply   *Comment   `gorm:"foreignKey:ReplyID" json:"reply,omitempty"`

	Seen      bool      `gorm:"default:false;index" json:"seen"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func NewLikeNotification(blogID, recipient, actor uuid.UUID) *Notification {
	return &Notification{
		Type:              NotificationLike,
		BlogID:            blogID,
		NotificationForID: recipient,
		UserID:            actor,
	}
}

func NewCommentNotification(blogID, recipient, actor, commentID uuid.UUID) *Notification {
	return &Notification{
		Type:              NotificationComment,
		BlogID:            blogID,
		NotificationForID: recipient,
		UserID:            actor,
		CommentID:         &commentID,
	}
}

func NewReplyNotification(blogID, recipient, actor, commentID, repliedOn uuid.UUID) *Notification {
	return &Notification{
		Type:               NotificationReply,
		BlogID:             blogID,
		NotificationForID:  recipient,
		UserID:             actor,
		CommentID:          &commentID,
		RepliedOnCommentID: &repliedOn,
	}
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		n.ID = id
	}
	return n.validateVariant()
}

func (n *Notification) validateVariant() error {
	switch n.Type {
	case NotificationLike:
		if n.CommentID != nil {
			return fmt.Errorf("like notification must not reference a comment")
		}
	case NotificationComment, NotificationReply:
		if n.CommentID == nil {
			return fmt.Errorf("%s notification requires a comment reference", n.Type)
		}
		if n.Type == NotificationReply && n.RepliedOnCommentID == nil {
			return fmt.Errorf("reply notification requires the replied-on comment")
		}
	default:
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	return nil
}
