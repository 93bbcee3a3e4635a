// internal/app/store/lists/memory.go
package liststore

import (
	"context"
	"sort"
	"sync"

	"github.com/dalemusser/shoppingo/internal/domain/models"
)

// Memory is an in-process list repository with the same semantics as Store.
// It backs the "memory" store type and the service tests.
type Memory struct {
	mu    sync.RWMutex
	lists map[string]models.List // title -> list
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{lists: make(map[string]models.List)}
}

func (m *Memory) GetByTitle(ctx context.Context, title string) (*models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lists[title]
	if !ok {
		return nil, nil
	}
	out := l.Clone()
	return &out, nil
}

func (m *Memory) FindByUserID(ctx context.Context, userID string) ([]models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.List{}
	for _, l := range m.lists {
		if l.HasUser(userID) {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateAdded.Equal(out[j].DateAdded) {
			return out[i].ID < out[j].ID
		}
		return out[i].DateAdded.Before(out[j].DateAdded)
	})
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, l *models.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.lists[l.Title]; exists {
		return ErrDuplicateTitle
	}
	doc := prepare(*l)
	doc.Revision = 1
	m.lists[doc.Title] = doc
	l.Revision = doc.Revision
	return nil
}

func (m *Memory) DeleteByTitle(ctx context.Context, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.lists, title)
	return nil
}

func (m *Memory) ReplaceByTitle(ctx context.Context, title string, l *models.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.lists[title]
	if !ok {
		return ErrListNotFound
	}
	if cur.Revision != l.Revision {
		return ErrRevisionConflict
	}
	if l.Title != title {
		if _, taken := m.lists[l.Title]; taken {
			return ErrDuplicateTitle
		}
	}

	doc := prepare(*l)
	doc.Revision = l.Revision + 1
	delete(m.lists, title)
	m.lists[doc.Title] = doc
	l.Revision = doc.Revision
	return nil
}

func (m *Memory) PushItem(ctx context.Context, title string, item models.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.lists[title]
	if !ok {
		return ErrListNotFound
	}
	cur = cur.Clone()
	cur.Items = append(cur.Items, item)
	cur.Revision++
	m.lists[title] = cur
	return nil
}
