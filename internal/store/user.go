package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lostfound/apiserver/internal/recordstore"
	"github.com/lostfound/apiserver/types"
)

// UserRepository handles persistence for users.
//
// Every operation is a read-modify-write of the whole users collection,
// serialized by a single mutex.
type UserRepository struct {
	store recordstore.Store
	mu    sync.Mutex
}

func NewUserRepository(store recordstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loadRecords[types.User](ctx, r.store, recordstore.CollectionUsers)
	if err != nil {
		return types.User{}, err
	}
	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loadRecords[types.User](ctx, r.store, recordstore.CollectionUsers)
	if err != nil {
		return types.User{}, err
	}
	for _, user := range users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

// List returns all users in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return loadRecords[types.User](ctx, r.store, recordstore.CollectionUsers)
}

// Create stores a new user. The email must not already be registered;
// comparison is exact, as stored.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loadRecords[types.User](ctx, r.store, recordstore.CollectionUsers)
	if err != nil {
		return types.User{}, err
	}
	for _, existing := range users {
		if existing.Email == user.Email {
			return types.User{}, ErrEmailTaken
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	users = append(users, user)

	if err := saveRecords(ctx, r.store, recordstore.CollectionUsers, users); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Delete removes a user if present. Deleting an unknown id is a no-op.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loadRecords[types.User](ctx, r.store, recordstore.CollectionUsers)
	if err != nil {
		return err
	}

	kept := users[:0]
	for _, user := range users {
		if user.ID != id {
			kept = append(kept, user)
		}
	}
	if len(kept) == len(users) {
		return nil
	}
	return saveRecords(ctx, r.store, recordstore.CollectionUsers, kept)
}
