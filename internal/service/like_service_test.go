package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/inkwell-labs/inkwell/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLikeService(db *gorm.DB) LikeService {
	notificationRepo := repository.NewNotificationRepository(db)
	return NewLikeService(
		repository.NewBlogRepository(db),
		notificationRepo,
		NewNotificationService(notificationRepo, nil),
	)
}

func TestToggleLike(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	blog := createBlog(t, db, author, "first-post", false)
	svc := newLikeService(db)

	liked, err := svc.ToggleLike(context.Background(), reader.ID, blog.ID, false)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), reloadBlog(t, db, blog.ID).TotalLikes)

	var notification model.Notification
	require.NoError(t, db.First(&notification, "type = ?", model.NotificationLike).Error)
	assert.Equal(t, author.ID, notification.NotificationForID)
	assert.Equal(t, reader.ID, notification.UserID)
	assert.Nil(t, notification.CommentID)

	isLiked, err := svc.IsLikedByUser(context.Background(), reader.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, isLiked)

	liked, err = svc.ToggleLike(context.Background(), reader.ID, blog.ID, true)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, reloadBlog(t, db, blog.ID).TotalLikes)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Zero(t, count, "unliking withdraws the like notification")

	isLiked, err = svc.IsLikedByUser(context.Background(), reader.ID, blog.ID)
	require.NoError(t, err)
	assert.False(t, isLiked)
}

func TestToggleLikeIgnoresStaleClientState(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	blog := createBlog(t, db, author, "first-post", false)
	svc := newLikeService(db)

	_, err := svc.ToggleLike(context.Background(), reader.ID, blog.ID, false)
	require.NoError(t, err)

	// A retry with the same stale flag must not double count.
	liked, err := svc.ToggleLike(context.Background(), reader.ID, blog.ID, false)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), reloadBlog(t, db, blog.ID).TotalLikes)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestToggleLikeUnknownBlog(t *testing.T) {
	db := setupDB(t)
	reader := createUser(t, db, "reader")
	svc := newLikeService(db)

	_, err := svc.ToggleLike(context.Background(), reader.ID, uuid.New(), false)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}
