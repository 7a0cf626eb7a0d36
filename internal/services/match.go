package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lostfound/apiserver/internal/events"
	"github.com/lostfound/apiserver/types"
)

// ErrMissingIDs is returned when a match request omits either id.
var ErrMissingIDs = errors.New("lost and found item ids are required")

const matchTitle = "Match Found!"

// EventPublisher publishes match events to a broker channel.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// MatchService pairs a lost report with a found report and notifies both
// owners.
type MatchService struct {
	reports       ReportRepository
	notifications NotificationRepository
	publisher     EventPublisher
}

// NewMatchService constructs a MatchService. The publisher may be nil,
// in which case no events are emitted.
func NewMatchService(reports ReportRepository, notifications NotificationRepository, publisher EventPublisher) *MatchService {
	return &MatchService{
		reports:       reports,
		notifications: notifications,
		publisher:     publisher,
	}
}

// MatchPair transitions both reports to matched and creates one
// notification per owner, each embedding post-transition snapshots of
// the pair. Side effects are not rolled back: once the reports are
// matched, a notification failure leaves them matched.
func (s *MatchService) MatchPair(ctx context.Context, lostID, foundID string) error {
	lostID = strings.TrimSpace(lostID)
	foundID = strings.TrimSpace(foundID)
	if lostID == "" || foundID == "" {
		return ErrMissingIDs
	}

	lost, found, err := s.reports.MarkMatched(ctx, lostID, foundID)
	if err != nil {
		return err
	}

	// Snapshots are value copies of the matched pair; the web clients
	// render them from the notification even after the reports change.
	lostSnapshot := lost
	foundSnapshot := found

	_, err = s.notifications.Create(ctx, types.Notification{
		UserID:    lost.ReportedBy,
		Title:     matchTitle,
		Message:   fmt.Sprintf("Great news! We found a match for your lost item %q.", lost.Name),
		Kind:      types.NotificationMatchFound,
		LostItem:  &lostSnapshot,
		FoundItem: &foundSnapshot,
	})
	if err != nil {
		return err
	}

	_, err = s.notifications.Create(ctx, types.Notification{
		UserID:    found.ReportedBy,
		Title:     matchTitle,
		Message:   fmt.Sprintf("Great news! We found the owner of the item %q you found.", found.Name),
		Kind:      types.NotificationMatchFound,
		LostItem:  &lostSnapshot,
		FoundItem: &foundSnapshot,
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, lost, found)
	return nil
}

// publishEvent emits a match event for downstream consumers. Publishing
// is best-effort and never fails the match.
func (s *MatchService) publishEvent(ctx context.Context, lost, found types.Report) {
	if s.publisher == nil {
		return
	}

	event := events.MatchEvent{
		LostItemID:   lost.ID,
		FoundItemID:  found.ID,
		LostOwnerID:  lost.ReportedBy,
		FoundOwnerID: found.ReportedBy,
		ItemName:     lost.Name,
		MatchedAt:    time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("encode match event: %v", err)
		return
	}
	if _, err := s.publisher.Publish(ctx, events.ChannelMatches, data, map[string]string{
		"event": events.EventMatchCreated,
	}); err != nil {
		log.Printf("publish match event: %v", err)
	}
}
