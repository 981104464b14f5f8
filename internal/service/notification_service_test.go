package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasUnseenExcludesOwnActions(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	blog := createBlog(t, db, author, "first-post", false)
	svc := NewNotificationService(repository.NewNotificationRepository(db), nil)

	// The author liking their own blog produces no unread badge.
	require.NoError(t, svc.CreateNotification(context.Background(),
		model.NewLikeNotification(blog.ID, author.ID, author.ID)))

	unseen, err := svc.HasUnseen(context.Background(), author.ID)
	require.NoError(t, err)
	assert.False(t, unseen)

	require.NoError(t, svc.CreateNotification(context.Background(),
		model.NewLikeNotification(blog.ID, author.ID, reader.ID)))

	unseen, err = svc.HasUnseen(context.Background(), author.ID)
	require.NoError(t, err)
	assert.True(t, unseen)

	require.NoError(t, svc.MarkAllSeen(context.Background(), author.ID))
	unseen, err = svc.HasUnseen(context.Background(), author.ID)
	require.NoError(t, err)
	assert.False(t, unseen)
}

func TestGetNotificationsPagination(t *testing.T) {
	db := setupDB(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	blog := createBlog(t, db, author, "first-post", false)
	repo := repository.NewNotificationRepository(db)
	svc := NewNotificationService(repo, nil)

	for i := 0; i < 12; i++ {
		require.NoError(t, svc.CreateNotification(context.Background(),
			model.NewLikeNotification(blog.ID, author.ID, reader.ID)))
	}
	// Self-action, must never be listed.
	require.NoError(t, svc.CreateNotification(context.Background(),
		model.NewLikeNotification(blog.ID, author.ID, author.ID)))

	first, err := svc.GetNotifications(context.Background(), author.ID, "all", 1, 0)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, blog.Title, first[0].Blog.Title, "blog subset is populated")
	assert.Equal(t, reader.Username, first[0].User.Username, "actor profile is populated")

	second, err := svc.GetNotifications(context.Background(), author.ID, "all", 2, 0)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	// Three locally removed documents pull the second page back.
	shifted, err := svc.GetNotifications(context.Background(), author.ID, "all", 2, 3)
	require.NoError(t, err)
	assert.Len(t, shifted, 5)

	count, err := svc.CountNotifications(context.Background(), author.ID, "all")
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)

	likes, err := svc.CountNotifications(context.Background(), author.ID, "like")
	require.NoError(t, err)
	assert.Equal(t, int64(12), likes)

	comments, err := svc.CountNotifications(context.Background(), author.ID, "comment")
	require.NoError(t, err)
	assert.Zero(t, comments)
}

func TestCreateNotificationPublishesToRecipientChannel(t *testing.T) {
	db := setupDB(t)
	_, rdb := setupRedis(t)
	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	blog := createBlog(t, db, author, "first-post", false)
	svc := NewNotificationService(repository.NewNotificationRepository(db), rdb)

	channel := fmt.Sprintf("user_notifications:%s", author.ID.String())
	pubsub := rdb.Subscribe(context.Background(), channel)
	defer pubsub.Close()
	_, err := pubsub.Receive(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.CreateNotification(context.Background(),
		model.NewLikeNotification(blog.ID, author.ID, reader.ID)))

	select {
	case msg := <-pubsub.Channel():
		var payload model.Notification
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
		assert.Equal(t, model.NotificationLike, payload.Type)
		assert.Equal(t, author.ID, payload.NotificationForID)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification published to the recipient channel")
	}
}
