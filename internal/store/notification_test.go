package store

import (
	"context"
	"testing"

	"github.com/lostfound/apiserver/types"
	"github.com/stretchr/testify/require"
)

func newTestNotification(userID string) types.Notification {
	return types.Notification{
		UserID:  userID,
		Title:   "Match Found!",
		Message: "Great news!",
		Kind:    types.NotificationMatchFound,
	}
}

func TestNotificationCreateDefaults(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))

	created, err := repo.Create(context.Background(), newTestNotification("u1"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.Read)
	require.False(t, created.Timestamp.IsZero())
}

func TestNotificationListForUser(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestNotification("u1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestNotification("u2"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestNotification("u1"))
	require.NoError(t, err)

	owned, err := repo.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	for _, notification := range owned {
		require.Equal(t, "u1", notification.UserID)
	}

	none, err := repo.ListForUser(ctx, "u3")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestNotificationMarkRead(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestNotification("u1"))
	require.NoError(t, err)

	require.NoError(t, repo.MarkRead(ctx, created.ID))

	owned, err := repo.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.True(t, owned[0].Read)
}

func TestNotificationMarkReadMissingID(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))

	err := repo.MarkRead(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationMarkAllReadForUser(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, newTestNotification("u1"))
		require.NoError(t, err)
	}
	other, err := repo.Create(ctx, newTestNotification("u2"))
	require.NoError(t, err)

	require.NoError(t, repo.MarkAllReadForUser(ctx, "u1"))

	owned, err := repo.ListForUser(ctx, "u1")
	require.NoError(t, err)
	for _, notification := range owned {
		require.True(t, notification.Read)
	}

	// Other users' notifications are untouched.
	others, err := repo.ListForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, other.ID, others[0].ID)
	require.False(t, others[0].Read)

	// No notifications for the user is still a success.
	require.NoError(t, repo.MarkAllReadForUser(ctx, "u3"))
}

func TestNotificationDeleteIsIdempotent(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestNotification("u1"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))

	owned, err := repo.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, owned)
}

func TestNotificationDeleteForUser(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestNotification("u1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestNotification("u1"))
	require.NoError(t, err)
	kept, err := repo.Create(ctx, newTestNotification("u2"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteForUser(ctx, "u1"))

	owned, err := repo.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, owned)

	others, err := repo.ListForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, kept.ID, others[0].ID)
}

func TestNotificationSnapshotsSurviveReportDeletion(t *testing.T) {
	store := newTestStore(t)
	reports := NewReportRepository(store)
	notifications := NewNotificationRepository(store)
	ctx := context.Background()

	report, err := reports.Create(ctx, newTestReport(types.KindLost, "Wallet", "u1"))
	require.NoError(t, err)

	snapshot := report
	_, err = notifications.Create(ctx, types.Notification{
		UserID:   "u1",
		Title:    "Match Found!",
		Kind:     types.NotificationMatchFound,
		LostItem: &snapshot,
	})
	require.NoError(t, err)

	require.NoError(t, reports.Delete(ctx, report.ID))

	owned, err := notifications.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.NotNil(t, owned[0].LostItem)
	require.Equal(t, report.ID, owned[0].LostItem.ID)
	require.Equal(t, "Wallet", owned[0].LostItem.Name)
}
