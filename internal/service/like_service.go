package service

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/inkwell-labs/inkwell/pkg/apperror"
)

type LikeService interface {
	ToggleLike(ctx context.Context, userID, blogID uuid.UUID, likedByUser bool) (bool, error)
	IsLikedByUser(ctx context.Context, userID, blogID uuid.UUID) (bool, error)
}

type likeService struct {
	blogRepo            repository.BlogRepository
	notificationRepo    repository.NotificationRepository
	notificationService NotificationService
}

func NewLikeService(blogRepo repository.BlogRepository, notificationRepo repository.NotificationRepository, notificationService NotificationService) LikeService {
	return &likeService{
		blogRepo:            blogRepo,
		notificationRepo:    notificationRepo,
		notificationService: notificationService,
	}
}

// ToggleLike flips the user's like on the blog and returns the new
// state. The like notification doubles as the membership record, so a
// repeated request in the same state is a no-op.
func (s *likeService) ToggleLike(ctx context.Context, userID, blogID uuid.UUID, likedByUser bool) (bool, error) {
	blog, err := s.blogRepo.FindByID(ctx, blogID)
	if err != nil {
		return false, apperror.New(http.StatusNotFound, "blog not found", apperror.ErrNotFound)
	}

	exists, err := s.notificationRepo.ExistsLike(ctx, userID, blogID)
	if err != nil {
		return false, err
	}
	if exists == !likedByUser {
		// Client state is stale; the toggle already happened.
		return exists, nil
	}

	if likedByUser {
		if err := s.blogRepo.IncLikes(ctx, blogID, -1); err != nil {
			return false, err
		}
		if err := s.notificationRepo.DeleteLike(ctx, userID, blogID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.blogRepo.IncLikes(ctx, blogID, 1); err != nil {
		return false, err
	}
	notification := model.NewLikeNotification(blogID, blog.AuthorID, userID)
	if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
		return false, err
	}
	return true, nil
}

func (s *likeService) IsLikedByUser(ctx context.Context, userID, blogID uuid.UUID) (bool, error) {
	return s.notificationRepo.ExistsLike(ctx, userID, blogID)
}
