package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/shoppingo/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ListInserter is the part of a list repository fixtures need.
type ListInserter interface {
	Insert(ctx context.Context, l *models.List) error
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	repo ListInserter
	t    *testing.T
}

// NewFixtures creates a new Fixtures instance writing through repo.
func NewFixtures(t *testing.T, repo ListInserter) *Fixtures {
	t.Helper()
	return &Fixtures{repo: repo, t: t}
}

// Owner returns a user suitable as a list owner.
func Owner() models.User {
	return models.User{ID: uuid.NewString(), Username: "owner"}
}

// NewList builds an unsaved list owned by the given users.
func NewList(title string, users ...models.User) *models.List {
	return &models.List{
		ID:        uuid.NewString(),
		Title:     title,
		DateAdded: time.Now().UTC().Truncate(time.Millisecond),
		Items:     []models.Item{},
		Users:     users,
	}
}

// NewItem builds an unselected item.
func NewItem(name string) models.Item {
	return models.Item{
		ID:        uuid.NewString(),
		Name:      name,
		DateAdded: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// CreateList stores a list with the given title, members and item names.
func (f *Fixtures) CreateList(ctx context.Context, title string, users []models.User, itemNames ...string) *models.List {
	f.t.Helper()

	l := NewList(title, users...)
	for _, n := range itemNames {
		l.Items = append(l.Items, NewItem(n))
	}
	if err := f.repo.Insert(ctx, l); err != nil {
		f.t.Fatalf("failed to create test list %q: %v", title, err)
	}
	return l
}
