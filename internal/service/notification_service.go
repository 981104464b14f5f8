package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/redis/go-redis/v9"
)

const notificationsPerPage = 10

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	HasUnseen(ctx context.Context, userID uuid.UUID) (bool, error)
	GetNotifications(ctx context.Context, userID uuid.UUID, filter string, page, deletedDocCount int) ([]model.Notification, error)
	CountNotifications(ctx context.Context, userID uuid.UUID, filter string) (int64, error)
	MarkAllSeen(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// CreateNotification stores the notification and, when redis is
// available, pushes it to the recipient's live channel so open
// websocket sessions pick it up immediately.
func (s *notificationService) CreateNotification(ctx context.Context, notification *model.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.NotificationForID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

func (s *notificationService) HasUnseen(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.HasUnseen(ctx, userID)
}

// GetNotifications returns one page of the recipient's notifications,
// newest first. deletedDocCount shifts the offset back by the number of
// documents the client removed from already-loaded pages, so deleting a
// notification-attached reply never makes the next page skip entries.
func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, filter string, page, deletedDocCount int) ([]model.Notification, error) {
	if page < 1 {
		page = 1
	}
	skip := (page-1)*notificationsPerPage - deletedDocCount
	if skip < 0 {
		skip = 0
	}
	return s.repo.List(ctx, userID, filter, skip, notificationsPerPage)
}

func (s *notificationService) CountNotifications(ctx context.Context, userID uuid.UUID, filter string) (int64, error) {
	return s.repo.Count(ctx, userID, filter)
}

func (s *notificationService) MarkAllSeen(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllSeen(ctx, userID)
}
