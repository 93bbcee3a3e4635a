// internal/app/lists/repository.go
package lists

import (
	"context"

	"github.com/dalemusser/shoppingo/internal/domain/models"
)

// Repository persists whole list documents keyed by title.
// Implementations report misses at write time with liststore.ErrListNotFound
// and enforce no business rules.
type Repository interface {
	GetByTitle(ctx context.Context, title string) (*models.List, error)
	FindByUserID(ctx context.Context, userID string) ([]models.List, error)
	Insert(ctx context.Context, l *models.List) error
	DeleteByTitle(ctx context.Context, title string) error
	ReplaceByTitle(ctx context.Context, title string, l *models.List) error
	PushItem(ctx context.Context, title string, item models.Item) error
}

// IDGenerator produces identifiers for new lists and items.
type IDGenerator interface {
	Generate() string
}

// UserResolver looks up users by username in the external auth service.
type UserResolver interface {
	GetUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
}
