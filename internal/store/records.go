package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lostfound/apiserver/internal/recordstore"
)

// loadRecords decodes a whole collection snapshot into typed records.
func loadRecords[T any](ctx context.Context, s recordstore.Store, collection string) ([]T, error) {
	data, err := s.Load(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return records, nil
}

// saveRecords replaces a whole collection snapshot with typed records,
// pretty-printed so the data files stay human-readable.
func saveRecords[T any](ctx context.Context, s recordstore.Store, collection string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := s.Save(ctx, collection, data); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}
