package services

import (
	"context"
	"testing"

	"github.com/lostfound/apiserver/internal/recordstore"
	"github.com/lostfound/apiserver/internal/store"
	"github.com/lostfound/apiserver/types"
	"github.com/stretchr/testify/require"
)

func TestUserDeleteCascades(t *testing.T) {
	records, err := recordstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	userRepo := store.NewUserRepository(records)
	reportRepo := store.NewReportRepository(records)
	notificationRepo := store.NewNotificationRepository(records)
	userService := NewUserService(userRepo, reportRepo, notificationRepo)

	ctx := context.Background()
	user, err := userService.Create(ctx, types.User{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)
	other, err := userService.Create(ctx, types.User{Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	for _, kind := range []string{types.KindLost, types.KindFound} {
		_, err = reportRepo.Create(ctx, types.Report{Kind: kind, Name: "Wallet", ReportedBy: user.ID})
		require.NoError(t, err)
	}
	otherReport, err := reportRepo.Create(ctx, types.Report{Kind: types.KindLost, Name: "Keys", ReportedBy: other.ID})
	require.NoError(t, err)

	_, err = notificationRepo.Create(ctx, types.Notification{UserID: user.ID, Title: "Match Found!"})
	require.NoError(t, err)
	_, err = notificationRepo.Create(ctx, types.Notification{UserID: other.ID, Title: "Match Found!"})
	require.NoError(t, err)

	require.NoError(t, userService.Delete(ctx, user.ID))

	_, err = userService.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	reports, err := reportRepo.List(ctx, store.ReportFilter{Owner: user.ID})
	require.NoError(t, err)
	require.Empty(t, reports)

	notifications, err := notificationRepo.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, notifications)

	// The other user's records survive.
	remaining, err := reportRepo.List(ctx, store.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, otherReport.ID, remaining[0].ID)

	otherNotifs, err := notificationRepo.ListForUser(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, otherNotifs, 1)
}

func TestNotificationServiceMarkAllReadThenList(t *testing.T) {
	records, err := recordstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	notificationRepo := store.NewNotificationRepository(records)
	notificationService := NewNotificationService(notificationRepo)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := notificationService.Create(ctx, types.Notification{UserID: "u1", Title: "Match Found!"})
		require.NoError(t, err)
	}

	require.NoError(t, notificationService.MarkAllRead(ctx, "u1"))

	notifications, err := notificationService.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	for _, notification := range notifications {
		require.True(t, notification.Read)
	}
}
