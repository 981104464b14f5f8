package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	HasUnseen(ctx context.Context, recipientID uuid.UUID) (bool, error)
	ExistsLike(ctx context.Context, actorID, blogID uuid.UUID) (bool, error)
	DeleteLike(ctx context.Context, actorID, blogID uuid.UUID) error
	List(ctx context.Context, recipientID uuid.UUID, filter string, skip, limit int) ([]model.Notification, error)
	Count(ctx context.Context, recipientID uuid.UUID, filter string) (int64, error)
	AttachReply(ctx context.Context, notificationID, replyID uuid.UUID) error
	MarkAllSeen(ctx context.Context, recipientID uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// HasUnseen reports whether any unseen notification exists for the
// recipient. Actions the recipient performed on their own content do
// not count.
func (r *notificationRepository) HasUnseen(ctx context.Context, recipientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("notification_for_id = ? AND seen = ? AND user_id <> ?", recipientID, false, recipientID).
		Count(&count).Error
	return count > 0, err
}

func (r *notificationRepository) ExistsLike(ctx context.Context, actorID, blogID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND blog_id = ? AND type = ?", actorID, blogID, model.NotificationLike).
		Count(&count).Error
	return count > 0, err
}

func (r *notificationRepository) DeleteLike(ctx context.Context, actorID, blogID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ? AND type = ?", actorID, blogID, model.NotificationLike).
		Delete(&model.Notification{}).Error
}

func (r *notificationRepository) forRecipient(query *gorm.DB, recipientID uuid.UUID, filter string) *gorm.DB {
	query = query.Where("notification_for_id = ? AND user_id <> ?", recipientID, recipientID)
	if filter != "" && filter != "all" {
		query = query.Where("type = ?", filter)
	}
	return query
}

func (r *notificationRepository) List(ctx context.Context, recipientID uuid.UUID, filter string, skip, limit int) ([]model.Notification, error) {
	commentText := func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "comment")
	}

	var notifications []model.Notification
	query := r.db.WithContext(ctx).
		Preload("Blog", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "blog_id", "title")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select(PublicProfileFields)
		}).
		Preload("Comment", commentText).
		Preload("RepliedOnComment", commentText).
		Preload("Reply", commentText)
	err := r.forRecipient(query, recipientID, filter).
		Order("created_at desc").
		Offset(skip).
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) Count(ctx context.Context, recipientID uuid.UUID, filter string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Notification{})
	err := r.forRecipient(query, recipientID, filter).Count(&count).Error
	return count, err
}

// AttachReply records the comment created in answer to a notification,
// so the recipient sees their reply inline on the notifications page.
func (r *notificationRepository) AttachReply(ctx context.Context, notificationID, replyID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", notificationID).
		Update("reply_id", replyID).Error
}

func (r *notificationRepository) MarkAllSeen(ctx context.Context, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("notification_for_id = ? AND seen = ?", recipientID, false).
		Update("seen", true).Error
}
