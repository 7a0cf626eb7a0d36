package recordstore

import "context"

// Collection names persisted by the service.
const (
	CollectionUsers         = "users"
	CollectionReports       = "reports"
	CollectionNotifications = "notifications"
)

// Store persists each collection as a whole-document snapshot.
// There are no row-level writes: Save replaces the entire collection,
// and callers own the read-modify-write sequence (and its locking).
type Store interface {
	// Load returns the raw JSON array for the collection. A collection
	// that has never been saved loads as an empty array, not an error.
	Load(ctx context.Context, collection string) ([]byte, error)

	// Save replaces the collection with the given JSON array.
	Save(ctx context.Context, collection string, data []byte) error

	// Close releases any resources held by the backend.
	Close() error
}

var emptyCollection = []byte("[]")
