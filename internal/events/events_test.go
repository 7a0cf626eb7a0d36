package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	published []Message
	closed    bool
}

func (f *fakeBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.published = append(f.published, Message{ID: channel, Data: data, Attributes: attrs})
	return "id-1", nil
}

func (f *fakeBackend) Subscribe(_ context.Context, _ string, _ Handler) error {
	return nil
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func TestBusDelegatesToBackend(t *testing.T) {
	backend := &fakeBackend{}
	bus := New(backend)

	id, err := bus.Publish(context.Background(), ChannelMatches, []byte(`{}`), map[string]string{"event": EventMatchCreated})
	require.NoError(t, err)
	require.Equal(t, "id-1", id)
	require.Len(t, backend.published, 1)
	require.Equal(t, ChannelMatches, backend.published[0].ID)

	require.NoError(t, bus.Close())
	require.True(t, backend.closed)
}

func TestMatchEventRoundTrip(t *testing.T) {
	event := MatchEvent{
		LostItemID:   "l1",
		FoundItemID:  "f1",
		LostOwnerID:  "u1",
		FoundOwnerID: "u2",
		ItemName:     "Wallet",
		MatchedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded MatchEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, event.LostItemID, decoded.LostItemID)
	require.Equal(t, event.FoundOwnerID, decoded.FoundOwnerID)
	require.True(t, event.MatchedAt.Equal(decoded.MatchedAt))
}
