package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/inkwell-labs/inkwell/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
)

const commentsPerBatch = 5

type AddCommentInput struct {
	BlogID uuid.UUID
	// BlogAuthorID is what the client believes; the stored value is
	// always taken from the blog record.
	BlogAuthorID   uuid.UUID
	Comment        string
	ReplyingTo     *uuid.UUID
	NotificationID *uuid.UUID
}

type CommentService interface {
	AddComment(ctx context.Context, userID uuid.UUID, in AddCommentInput) (*model.Comment, error)
	GetComments(ctx context.Context, blogID uuid.UUID, skip int) ([]model.Comment, error)
	GetReplies(ctx context.Context, commentID uuid.UUID, skip int) ([]model.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
}

type commentService struct {
	commentRepo         repository.CommentRepository
	blogRepo            repository.BlogRepository
	notificationRepo    repository.NotificationRepository
	notificationService NotificationService
	redisClient         *redis.Client
	sanitizer           *bluemonday.Policy
	cooldown            time.Duration
}

func NewCommentService(commentRepo repository.CommentRepository, blogRepo repository.BlogRepository, notificationRepo repository.NotificationRepository, notificationService NotificationService, redisClient *redis.Client, cooldown time.Duration) CommentService {
	if cooldown <= 0 {
		cooldown = 10 * time.Second
	}
	return &commentService{
		commentRepo:         commentRepo,
		blogRepo:            blogRepo,
		notificationRepo:    notificationRepo,
		notificationService: notificationService,
		redisClient:         redisClient,
		sanitizer:           bluemonday.StrictPolicy(),
		cooldown:            cooldown,
	}
}

func (s *commentService) AddComment(ctx context.Context, userID uuid.UUID, in AddCommentInput) (*model.Comment, error) {
	text := strings.TrimSpace(s.sanitizer.Sanitize(in.Comment))
	if text == "" {
		return nil, apperror.New(http.StatusForbidden, "write something to leave a comment", nil)
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "comment", s.cooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "comment")
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("you are commenting too fast. Please wait %.0f seconds", ttl.Seconds()),
			apperror.ErrRateLimited)
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ClearRateLimit(ctx, s.redisClient, userID, "comment")
		}
	}()

	blog, err := s.blogRepo.FindByID(ctx, in.BlogID)
	if err != nil {
		return nil, apperror.New(http.StatusNotFound, "blog not found", apperror.ErrNotFound)
	}

	var parent *model.Comment
	if in.ReplyingTo != nil {
		parent, err = s.commentRepo.FindByID(ctx, *in.ReplyingTo)
		if err != nil {
			return nil, apperror.New(http.StatusNotFound, "comment to reply to not found", apperror.ErrNotFound)
		}
		if parent.BlogID != in.BlogID {
			return nil, apperror.New(http.StatusBadRequest, "reply target belongs to another blog", apperror.ErrBadRequest)
		}
	}

	// The blog author comes from the record, not the request body.
	comment := &model.Comment{
		BlogID:        in.BlogID,
		BlogAuthorID:  blog.AuthorID,
		CommentedByID: userID,
		Comment:       text,
		IsReply:       in.ReplyingTo != nil,
		ParentID:      in.ReplyingTo,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Children = []uuid.UUID{}

	// A reply notifies the parent comment's author, not the blog's.
	var notification *model.Notification
	if parent != nil {
		notification = model.NewReplyNotification(in.BlogID, parent.CommentedByID, userID, comment.ID, parent.ID)
	} else {
		notification = model.NewCommentNotification(in.BlogID, blog.AuthorID, userID, comment.ID)
	}
	if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}

	// Replying straight from the notifications page records the new
	// comment on that notification so the page can render it inline.
	if in.NotificationID != nil {
		if err := s.notificationRepo.AttachReply(ctx, *in.NotificationID, comment.ID); err != nil {
			return nil, err
		}
	}

	creationFailed = false
	return comment, nil
}

func (s *commentService) GetComments(ctx context.Context, blogID uuid.UUID, skip int) ([]model.Comment, error) {
	if skip < 0 {
		skip = 0
	}
	comments, err := s.commentRepo.TopLevel(ctx, blogID, skip, commentsPerBatch)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.AttachChildren(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *commentService) GetReplies(ctx context.Context, commentID uuid.UUID, skip int) ([]model.Comment, error) {
	if skip < 0 {
		skip = 0
	}
	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		return nil, apperror.New(http.StatusNotFound, "comment not found", apperror.ErrNotFound)
	}
	replies, err := s.commentRepo.Replies(ctx, commentID, skip, commentsPerBatch)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.AttachChildren(ctx, replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// DeleteComment removes the comment and its whole reply subtree. Only
// the comment's author or the blog's author may do it.
func (s *commentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return apperror.New(http.StatusNotFound, "comment not found", apperror.ErrNotFound)
	}

	if userID != comment.CommentedByID && userID != comment.BlogAuthorID {
		return apperror.New(http.StatusForbidden, "you can not delete this comment", apperror.ErrForbidden)
	}

	return s.commentRepo.DeleteTree(ctx, commentID)
}
