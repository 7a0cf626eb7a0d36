package services

import (
	"context"

	"github.com/lostfound/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id string) error
}

// UserService encapsulates user use-cases, including the delete cascade
// over the user's reports and notifications.
type UserService struct {
	repo          UserRepository
	reports       ReportRepository
	notifications NotificationRepository
}

func NewUserService(repo UserRepository, reports ReportRepository, notifications NotificationRepository) *UserService {
	return &UserService{
		repo:          repo,
		reports:       reports,
		notifications: notifications,
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

// Delete removes the user and cascades: every report the user filed and
// every notification addressed to them is purged. The three collection
// writes are independent; a failure partway leaves earlier deletions in
// place.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.reports.DeleteByOwner(ctx, id); err != nil {
		return err
	}
	return s.notifications.DeleteForUser(ctx, id)
}
