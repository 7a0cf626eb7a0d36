package services

import (
	"context"

	"github.com/lostfound/apiserver/types"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification types.Notification) (types.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]types.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllReadForUser(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteForUser(ctx context.Context, userID string) error
}

// NotificationService encapsulates notification use-cases.
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, notification types.Notification) (types.Notification, error) {
	return s.repo.Create(ctx, notification)
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]types.Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllReadForUser(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
