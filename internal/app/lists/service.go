// internal/app/lists/service.go
package lists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	liststore "github.com/dalemusser/shoppingo/internal/app/store/lists"
	"github.com/dalemusser/shoppingo/internal/app/system/authclient"
	"github.com/dalemusser/shoppingo/internal/domain/models"
	"go.uber.org/zap"
)

// Message is the result of operations that only report success.
type Message struct {
	Message string `json:"message"`
}

// ItemRenamed is the result of UpdateItemName.
type ItemRenamed struct {
	Message     string `json:"message"`
	NewItemName string `json:"newItemName"`
}

// ListRenamed is the result of UpdateListTitle.
type ListRenamed struct {
	Message  string `json:"message"`
	NewTitle string `json:"newTitle"`
}

// Service implements the list rules on top of a Repository.
//
// Mutations other than AddItem read the whole list, change it in memory and
// write it back with ReplaceByTitle. The repository rejects the write when
// another request changed the list in between, which surfaces as a
// KindConflict error. Nothing is retried.
type Service struct {
	repo  Repository
	ids   IDGenerator
	auth  UserResolver
	log   *zap.Logger
	clock func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for missing dateAdded values.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.clock = now }
}

// NewService wires a Service. auth may be nil when no auth service is
// configured; sharing a new list then fails with KindUnconfigured.
func NewService(repo Repository, ids IDGenerator, auth UserResolver, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		ids:   ids,
		auth:  auth,
		log:   logger,
		clock: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetListItems returns the items of the titled list.
func (s *Service) GetListItems(ctx context.Context, title string) ([]models.Item, error) {
	l, err := s.mustGet(ctx, title)
	if err != nil {
		return nil, err
	}
	return l.Items, nil
}

// GetListsForUser returns every list userID belongs to, with members
// reduced to their usernames.
func (s *Service) GetListsForUser(ctx context.Context, userID string) ([]models.ListView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, newError(KindValidation, MsgUserIDRequired)
	}
	ls, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find lists for user: %w", err)
	}
	out := make([]models.ListView, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.View())
	}
	return out, nil
}

// AddList creates a list owned by owner and shared with the users named in
// selectedUsernames. The owner is always the last member.
func (s *Service) AddList(ctx context.Context, title string, dateAdded time.Time, owner models.User, selectedUsernames []string) (*models.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, newError(KindValidation, MsgTitleRequired)
	}
	if strings.TrimSpace(owner.ID) == "" {
		return nil, newError(KindValidation, MsgOwnerRequired)
	}

	existing, err := s.repo.GetByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("check list title: %w", err)
	}
	if existing != nil {
		return nil, newError(KindConflict, MsgListTitleTaken)
	}

	shared, err := s.resolveUsers(ctx, selectedUsernames)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(shared)+1)
	seen := map[string]bool{owner.ID: true}
	for _, u := range shared {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		users = append(users, u)
	}
	users = append(users, owner)

	if dateAdded.IsZero() {
		dateAdded = s.clock()
	}
	l := &models.List{
		ID:        s.ids.Generate(),
		Title:     title,
		DateAdded: dateAdded,
		Items:     []models.Item{},
		Users:     users,
	}
	if err := s.repo.Insert(ctx, l); err != nil {
		return nil, storeError(err, "insert list")
	}

	s.log.Info("list created",
		zap.String("list_id", l.ID),
		zap.String("owner_id", owner.ID),
		zap.Int("users", len(users)))
	return l, nil
}

// resolveUsers maps usernames to users via the auth service. An empty input
// needs no auth service and yields no users.
func (s *Service) resolveUsers(ctx context.Context, usernames []string) ([]models.User, error) {
	names := make([]string, 0, len(usernames))
	for _, n := range usernames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	if s.auth == nil {
		return nil, newError(KindUnconfigured, MsgAuthNotConfigured)
	}

	users, err := s.auth.GetUsersByUsernames(ctx, names)
	if err != nil {
		if errors.Is(err, authclient.ErrNoUsers) {
			return nil, newError(KindValidation, MsgNoUsersFound)
		}
		s.log.Warn("resolving shared users failed",
			zap.Int("usernames", len(names)),
			zap.Error(err))
		return nil, newError(KindUpstream, MsgAuthFetchFailed)
	}
	if len(users) == 0 {
		return nil, newError(KindValidation, MsgNoUsersFound)
	}
	return users, nil
}

// AddItem appends a new, unselected item to the titled list.
// Duplicate names are accepted here; only renames are checked.
func (s *Service) AddItem(ctx context.Context, title, itemName string, dateAdded time.Time) (*models.Item, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, newError(KindValidation, MsgItemNameRequired)
	}
	if dateAdded.IsZero() {
		dateAdded = s.clock()
	}
	item := models.Item{
		ID:         s.ids.Generate(),
		Name:       itemName,
		DateAdded:  dateAdded,
		IsSelected: false,
	}
	if err := s.repo.PushItem(ctx, title, item); err != nil {
		return nil, storeError(err, "push item")
	}
	return &item, nil
}

// UpdateItemName renames itemName to newItemName within the titled list.
func (s *Service) UpdateItemName(ctx context.Context, title, itemName, newItemName string) (*ItemRenamed, error) {
	newItemName = strings.TrimSpace(newItemName)
	if newItemName == "" {
		return nil, newError(KindValidation, MsgNewTitleEmpty)
	}
	if newItemName == itemName {
		return nil, newError(KindValidation, MsgItemNameUnchanged)
	}

	l, err := s.mustGet(ctx, title)
	if err != nil {
		return nil, err
	}
	if indexOfItem(l.Items, newItemName) >= 0 {
		return nil, newError(KindConflict, MsgItemNameTaken)
	}
	i := indexOfItem(l.Items, itemName)
	if i < 0 {
		return nil, newError(KindNotFound, MsgItemNotFound)
	}
	l.Items[i].Name = newItemName

	if err := s.repo.ReplaceByTitle(ctx, title, l); err != nil {
		return nil, storeError(err, "replace list")
	}
	return &ItemRenamed{Message: MsgItemNameUpdated, NewItemName: newItemName}, nil
}

// SetItemSelected sets the selected flag of itemName in the titled list.
func (s *Service) SetItemSelected(ctx context.Context, title, itemName string, isSelected bool) (*Message, error) {
	l, err := s.mustGet(ctx, title)
	if err != nil {
		return nil, err
	}
	i := indexOfItem(l.Items, itemName)
	if i < 0 {
		return nil, newError(KindNotFound, MsgItemNotFound)
	}
	l.Items[i].IsSelected = isSelected

	if err := s.repo.ReplaceByTitle(ctx, title, l); err != nil {
		return nil, storeError(err, "replace list")
	}
	return &Message{Message: MsgItemUpdated}, nil
}

// ClearSelectedItems removes every selected item from the titled list.
func (s *Service) ClearSelectedItems(ctx context.Context, title string) (*models.List, error) {
	return s.mutate(ctx, title, func(l *models.List) {
		l.Items = filterItems(l.Items, func(it models.Item) bool { return !it.IsSelected })
	})
}

// DeleteItem removes the items named itemName from the titled list.
// Removing a name that is not present leaves the list unchanged.
func (s *Service) DeleteItem(ctx context.Context, title, itemName string) (*models.List, error) {
	return s.mutate(ctx, title, func(l *models.List) {
		l.Items = filterItems(l.Items, func(it models.Item) bool { return it.Name != itemName })
	})
}

// ClearList removes all items from the titled list.
func (s *Service) ClearList(ctx context.Context, title string) (*models.List, error) {
	return s.mutate(ctx, title, func(l *models.List) {
		l.Items = []models.Item{}
	})
}

// UpdateListTitle renames the titled list to newTitle.
func (s *Service) UpdateListTitle(ctx context.Context, title, newTitle string) (*ListRenamed, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return nil, newError(KindValidation, MsgNewTitleEmpty)
	}

	l, err := s.mustGet(ctx, title)
	if err != nil {
		return nil, err
	}
	other, err := s.repo.GetByTitle(ctx, newTitle)
	if err != nil {
		return nil, fmt.Errorf("check list title: %w", err)
	}
	if other != nil && other.ID != l.ID {
		return nil, newError(KindConflict, MsgListTitleTaken)
	}

	l.Title = newTitle
	if err := s.repo.ReplaceByTitle(ctx, title, l); err != nil {
		return nil, storeError(err, "replace list")
	}
	return &ListRenamed{Message: MsgListTitleUpdated, NewTitle: newTitle}, nil
}

// DeleteList removes the titled list. A missing list is not an error.
func (s *Service) DeleteList(ctx context.Context, title string) (*Message, error) {
	if err := s.repo.DeleteByTitle(ctx, title); err != nil {
		return nil, fmt.Errorf("delete list: %w", err)
	}
	return &Message{Message: MsgListDeleted}, nil
}

// mutate loads the titled list, applies fn and writes the result back.
func (s *Service) mutate(ctx context.Context, title string, fn func(*models.List)) (*models.List, error) {
	l, err := s.mustGet(ctx, title)
	if err != nil {
		return nil, err
	}
	fn(l)
	if err := s.repo.ReplaceByTitle(ctx, title, l); err != nil {
		return nil, storeError(err, "replace list")
	}
	return l, nil
}

func (s *Service) mustGet(ctx context.Context, title string) (*models.List, error) {
	l, err := s.repo.GetByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	if l == nil {
		return nil, newError(KindNotFound, MsgListNotFound)
	}
	return l, nil
}

// storeError translates repository sentinel errors into service errors.
func storeError(err error, op string) error {
	switch {
	case errors.Is(err, liststore.ErrListNotFound):
		return newError(KindNotFound, MsgListNotFound)
	case errors.Is(err, liststore.ErrDuplicateTitle):
		return newError(KindConflict, MsgListTitleTaken)
	case errors.Is(err, liststore.ErrRevisionConflict):
		return newError(KindConflict, MsgListModified)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func indexOfItem(items []models.Item, name string) int {
	for i, it := range items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

func filterItems(items []models.Item, keep func(models.Item) bool) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
