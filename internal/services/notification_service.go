package services

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/joblinkhq/joblink/internal/models"
	mongorepo "github.com/joblinkhq/joblink/internal/repositories/mongo"
	"github.com/joblinkhq/joblink/internal/utils"
	"github.com/joblinkhq/joblink/internal/workers"
)

type NotificationService interface {
	List(ctx context.Context, userID string) ([]models.Notification, error)
	// Dismiss deletes the notification; only the addressee may dismiss.
	Dismiss(ctx context.Context, userID, notificationID string) error
	// Enqueue hands a dispatch event to the worker pool via the Redis
	// stream. Callers treat failures as best-effort.
	Enqueue(ctx context.Context, userID, applicationID, message string) error
}

type notificationService struct {
	notifications mongorepo.NotificationRepository
	rdb           *redis.Client
}

func NewNotificationService(notifications mongorepo.NotificationRepository, rdb *redis.Client) NotificationService {
	return &notificationService{notifications: notifications, rdb: rdb}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	const op = "NotificationService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	out, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list notifications", err)
	}
	return out, nil
}

func (s *notificationService) Dismiss(ctx context.Context, userID, notificationID string) error {
	const op = "NotificationService.Dismiss"

	if notificationID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "notification id is required", nil)
	}

	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "notification not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load notification", err)
	}
	if n.UserID != userID {
		return utils.E(utils.CodeForbidden, op, "notification addressed to another user", nil)
	}

	if err := s.notifications.Delete(ctx, notificationID); err != nil && !errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInternal, op, "failed to delete notification", err)
	}
	return nil
}

func (s *notificationService) Enqueue(ctx context.Context, userID, applicationID, message string) error {
	const op = "NotificationService.Enqueue"

	if s.rdb == nil {
		return utils.E(utils.CodeInternal, op, "redis is not configured", nil)
	}
	err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: workers.NotificationStream,
		Values: map[string]any{
			"user_id":        userID,
			"application_id": applicationID,
			"message":        message,
		},
	}).Err()
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to enqueue notification", err)
	}
	return nil
}
