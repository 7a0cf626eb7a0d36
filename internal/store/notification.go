package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lostfound/apiserver/internal/recordstore"
	"github.com/lostfound/apiserver/types"
)

// NotificationRepository handles persistence for notifications.
//
// Every operation is a read-modify-write of the whole notifications
// collection, serialized by a single mutex.
type NotificationRepository struct {
	store recordstore.Store
	mu    sync.Mutex
}

func NewNotificationRepository(store recordstore.Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

// Create stores a new notification with a fresh id, read=false, and the
// current timestamp. Embedded report snapshots are persisted as given.
func (r *NotificationRepository) Create(ctx context.Context, notification types.Notification) (types.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := loadRecords[types.Notification](ctx, r.store, recordstore.CollectionNotifications)
	if err != nil {
		return types.Notification{}, err
	}

	notification.ID = uuid.NewString()
	notification.Read = false
	notification.Timestamp = time.Now()
	notifications = append(notifications, notification)

	if err := saveRecords(ctx, r.store, recordstore.CollectionNotifications, notifications); err != nil {
		return types.Notification{}, err
	}
	return notification, nil
}

// ListForUser returns the user's notifications in insertion order.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]types.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := loadRecords[types.Notification](ctx, r.store, recordstore.CollectionNotifications)
	if err != nil {
		return nil, err
	}

	owned := make([]types.Notification, 0, len(notifications))
	for _, notification := range notifications {
		if notification.UserID == userID {
			owned = append(owned, notification)
		}
	}
	return owned, nil
}

// MarkRead flags a notification as read, or ErrNotFound for unknown ids.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := loadRecords[types.Notification](ctx, r.store, recordstore.CollectionNotifications)
	if err != nil {
		return err
	}

	for i := range notifications {
		if notifications[i].ID == id {
			notifications[i].Read = true
			return saveRecords(ctx, r.store, recordstore.CollectionNotifications, notifications)
		}
	}
	return ErrNotFound
}

// MarkAllReadForUser flags every notification owned by the user as read.
// Succeeds even when the user has none.
func (r *NotificationRepository) MarkAllReadForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := loadRecords[types.Notification](ctx, r.store, recordstore.CollectionNotifications)
	if err != nil {
		return err
	}

	changed := false
	for i := range notifications {
		if notifications[i].UserID == userID && !notifications[i].Read {
			notifications[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return saveRecords(ctx, r.store, recordstore.CollectionNotifications, notifications)
}

// Delete removes a notification if present. Deleting an unknown id is a
// no-op.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := loadRecords[types.Notification](ctx, r.store, recordstore.CollectionNotifications)
	if err != nil {
		return err
	}

	kept := notifications[:0]
	for _, notification := range notifications {
		if notification.ID != id {
			kept = append(kept, notification)
		}
	}
	if len(kept) == len(notifications) {
		return nil
	}
	return saveRecords(ctx, r.store, recordstore.CollectionNotifications, kept)
}

// DeleteForUser purges every notification addressed to the given user.
func (r *NotificationRepository) DeleteForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notifications, err := loadRecords[types.Notification](ctx, r.store, recordstore.CollectionNotifications)
	if err != nil {
		return err
	}

	kept := notifications[:0]
	for _, notification := range notifications {
		if notification.UserID != userID {
			kept = append(kept, notification)
		}
	}
	if len(kept) == len(notifications) {
		return nil
	}
	return saveRecords(ctx, r.store, recordstore.CollectionNotifications, kept)
}
