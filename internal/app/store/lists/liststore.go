// internal/app/store/lists/liststore.go
package liststore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/shoppingo/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the name of the MongoDB collection holding list documents.
const Collection = "lists"

var (
	// ErrListNotFound is returned by writes that target a title with no list.
	ErrListNotFound = errors.New("list not found")
	// ErrDuplicateTitle is returned when a write would create a second list
	// with the same title.
	ErrDuplicateTitle = errors.New("a list with that name already exists")
	// ErrRevisionConflict is returned by ReplaceByTitle when the stored list
	// changed after it was read.
	ErrRevisionConflict = errors.New("list was modified by another request")
)

// Store is the MongoDB backed list repository. Every list is one document
// keyed by title for lookups and by _id for identity.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetByTitle returns the list with the exact title, or nil when none exists.
func (s *Store) GetByTitle(ctx context.Context, title string) (*models.List, error) {
	var l models.List
	if err := s.c.FindOne(ctx, bson.M{"title": title}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// FindByUserID returns every list that has userID among its users, oldest first.
func (s *Store) FindByUserID(ctx context.Context, userID string) ([]models.List, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateAdded", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"users.id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.List{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert stores a new list. The stored revision starts at 1 and is written
// back to l.
func (s *Store) Insert(ctx context.Context, l *models.List) error {
	doc := prepare(*l)
	doc.Revision = 1
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	l.Revision = doc.Revision
	return nil
}

// DeleteByTitle removes the list with the given title. Deleting a title that
// does not exist is not an error.
func (s *Store) DeleteByTitle(ctx context.Context, title string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"title": title})
	return err
}

// ReplaceByTitle replaces the whole document currently stored under title
// (which may differ from l.Title on a rename). The write only succeeds when
// the stored revision still equals l.Revision; l.Revision is advanced on
// success.
func (s *Store) ReplaceByTitle(ctx context.Context, title string, l *models.List) error {
	doc := prepare(*l)
	doc.Revision = l.Revision + 1

	res, err := s.c.ReplaceOne(ctx, bson.M{"title": title, "revision": l.Revision}, doc)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	if res.MatchedCount == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{"title": title})
		if err != nil {
			return fmt.Errorf("probe list after missed replace: %w", err)
		}
		if n > 0 {
			return ErrRevisionConflict
		}
		return ErrListNotFound
	}
	l.Revision = doc.Revision
	return nil
}

// PushItem atomically appends item to the items of the titled list.
func (s *Store) PushItem(ctx context.Context, title string, item models.Item) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"title": title},
		bson.M{
			"$push": bson.M{"items": item},
			"$inc":  bson.M{"revision": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrListNotFound
	}
	return nil
}

// prepare returns a copy of l whose slices encode as arrays, never null.
func prepare(l models.List) models.List {
	out := l.Clone()
	if out.Items == nil {
		out.Items = []models.Item{}
	}
	if out.Users == nil {
		out.Users = []models.User{}
	}
	return out
}
