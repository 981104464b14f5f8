package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationVariantRules(t *testing.T) {
	blog := uuid.New()
	recipient := uuid.New()
	actor := uuid.New()
	comment := uuid.New()
	parent := uuid.New()

	like := NewLikeNotification(blog, recipient, actor)
	require.NoError(t, like.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, like.ID)

	// A like must never carry a comment reference.
	like.CommentID = &comment
	assert.Error(t, like.validateVariant())

	commentNotif := NewCommentNotification(blog, recipient, actor, comment)
	require.NoError(t, commentNotif.BeforeCreate(nil))

	commentNotif.CommentID = nil
	assert.Error(t, commentNotif.validateVariant())

	reply := NewReplyNotification(blog, recipient, actor, comment, parent)
	require.NoError(t, reply.BeforeCreate(nil))

	reply.RepliedOnCommentID = nil
	assert.Error(t, reply.validateVariant())

	unknown := &Notification{Type: "poke", BlogID: blog, NotificationForID: recipient, UserID: actor}
	assert.Error(t, unknown.validateVariant())
}

func TestNotificationBeforeCreateKeepsExistingID(t *testing.T) {
	id := uuid.New()
	n := NewLikeNotification(uuid.New(), uuid.New(), uuid.New())
	n.ID = id
	require.NoError(t, n.BeforeCreate(nil))
	assert.Equal(t, id, n.ID)
}
