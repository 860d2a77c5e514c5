package store

import (
	"context"
	"errors"

	"github.com/igray-umney/telegram-bot-server/internal/domain"
)

// ErrNotFound is returned when no user exists for the given id.
var ErrNotFound = errors.New("user not found")

// Repo defines storage operations over the registered users.
type Repo interface {
	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)
	// Get returns the user with the given id or ErrNotFound.
	Get(ctx context.Context, userID string) (*domain.User, error)
	// Upsert inserts or fully replaces a user record by id.
	Upsert(ctx context.Context, u *domain.User) error
	// Update applies fn to the stored user (ErrNotFound if absent),
	// refreshes lastActive and persists the result.
	Update(ctx context.Context, userID string, fn func(*domain.User) error) (*domain.User, error)
	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
	Close() error
}
