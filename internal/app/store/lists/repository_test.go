package liststore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	liststore "github.com/dalemusser/shoppingo/internal/app/store/lists"
	"github.com/dalemusser/shoppingo/internal/domain/models"
	"github.com/dalemusser/shoppingo/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

// repository is the behaviour shared by Store and Memory.
type repository interface {
	GetByTitle(ctx context.Context, title string) (*models.List, error)
	FindByUserID(ctx context.Context, userID string) ([]models.List, error)
	Insert(ctx context.Context, l *models.List) error
	DeleteByTitle(ctx context.Context, title string) error
	ReplaceByTitle(ctx context.Context, title string, l *models.List) error
	PushItem(ctx context.Context, title string, item models.Item) error
}

// testRepository runs the repository contract against a fresh repository
// per subtest.
func testRepository(t *testing.T, newRepo func(t *testing.T) repository) {
	t.Run("GetByTitle missing", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		l, err := repo.GetByTitle(ctx, "nope")
		if err != nil {
			t.Fatalf("GetByTitle failed: %v", err)
		}
		if l != nil {
			t.Errorf("expected nil list, got %+v", l)
		}
	})

	t.Run("Insert and read back", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		owner := testutil.Owner()
		want := testutil.NewFixtures(t, repo).CreateList(ctx, "Groceries", []models.User{owner}, "Milk", "Bread")
		if want.Revision != 1 {
			t.Errorf("Revision after insert: got %d, want 1", want.Revision)
		}

		got, err := repo.GetByTitle(ctx, "Groceries")
		if err != nil {
			t.Fatalf("GetByTitle failed: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Insert duplicate title", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		owner := testutil.Owner()
		testutil.NewFixtures(t, repo).CreateList(ctx, "Dup", []models.User{owner})

		err := repo.Insert(ctx, testutil.NewList("Dup", owner))
		if !errors.Is(err, liststore.ErrDuplicateTitle) {
			t.Errorf("expected ErrDuplicateTitle, got %v", err)
		}
	})

	t.Run("Insert nil slices stored empty", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		l := testutil.NewList("Bare")
		l.Items, l.Users = nil, nil
		if err := repo.Insert(ctx, l); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		got, err := repo.GetByTitle(ctx, "Bare")
		if err != nil {
			t.Fatalf("GetByTitle failed: %v", err)
		}
		if got.Items == nil || got.Users == nil {
			t.Errorf("expected non-nil slices, got items=%v users=%v", got.Items, got.Users)
		}
	})

	t.Run("FindByUserID", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		alice := models.User{ID: "alice-id", Username: "alice"}
		bob := models.User{ID: "bob-id", Username: "bob"}

		older := testutil.NewList("Older", alice, bob)
		older.DateAdded = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := testutil.NewList("Newer", alice)
		newer.DateAdded = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		other := testutil.NewList("Other", bob)

		for _, l := range []*models.List{newer, older, other} {
			if err := repo.Insert(ctx, l); err != nil {
				t.Fatalf("Insert(%q) failed: %v", l.Title, err)
			}
		}

		got, err := repo.FindByUserID(ctx, alice.ID)
		if err != nil {
			t.Fatalf("FindByUserID failed: %v", err)
		}
		var titles []string
		for _, l := range got {
			titles = append(titles, l.Title)
		}
		if diff := cmp.Diff([]string{"Older", "Newer"}, titles); diff != "" {
			t.Errorf("titles mismatch (-want +got):\n%s", diff)
		}

		none, err := repo.FindByUserID(ctx, "stranger")
		if err != nil {
			t.Fatalf("FindByUserID failed: %v", err)
		}
		if none == nil || len(none) != 0 {
			t.Errorf("expected empty non-nil result, got %v", none)
		}
	})

	t.Run("DeleteByTitle", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.NewFixtures(t, repo).CreateList(ctx, "Temp", []models.User{testutil.Owner()})

		if err := repo.DeleteByTitle(ctx, "Temp"); err != nil {
			t.Fatalf("DeleteByTitle failed: %v", err)
		}
		if err := repo.DeleteByTitle(ctx, "Temp"); err != nil {
			t.Fatalf("second DeleteByTitle failed: %v", err)
		}
		l, err := repo.GetByTitle(ctx, "Temp")
		if err != nil {
			t.Fatalf("GetByTitle failed: %v", err)
		}
		if l != nil {
			t.Error("expected list to be gone")
		}
	})

	t.Run("ReplaceByTitle", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.NewFixtures(t, repo).CreateList(ctx, "L", []models.User{testutil.Owner()}, "A")

		l, err := repo.GetByTitle(ctx, "L")
		if err != nil {
			t.Fatalf("GetByTitle failed: %v", err)
		}
		l.Items[0].IsSelected = true
		if err := repo.ReplaceByTitle(ctx, "L", l); err != nil {
			t.Fatalf("ReplaceByTitle failed: %v", err)
		}
		if l.Revision != 2 {
			t.Errorf("Revision after replace: got %d, want 2", l.Revision)
		}

		got, _ := repo.GetByTitle(ctx, "L")
		if !got.Items[0].IsSelected {
			t.Error("expected replaced item to be selected")
		}
	})

	t.Run("ReplaceByTitle rename", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		f := testutil.NewFixtures(t, repo)
		owner := testutil.Owner()
		f.CreateList(ctx, "Old", []models.User{owner})
		f.CreateList(ctx, "Taken", []models.User{owner})

		l, _ := repo.GetByTitle(ctx, "Old")
		l.Title = "Taken"
		if err := repo.ReplaceByTitle(ctx, "Old", l); !errors.Is(err, liststore.ErrDuplicateTitle) {
			t.Fatalf("expected ErrDuplicateTitle, got %v", err)
		}

		l, _ = repo.GetByTitle(ctx, "Old")
		l.Title = "New"
		if err := repo.ReplaceByTitle(ctx, "Old", l); err != nil {
			t.Fatalf("ReplaceByTitle rename failed: %v", err)
		}
		if old, _ := repo.GetByTitle(ctx, "Old"); old != nil {
			t.Error("expected old title to be gone")
		}
		if renamed, _ := repo.GetByTitle(ctx, "New"); renamed == nil || renamed.ID != l.ID {
			t.Errorf("expected list under new title, got %+v", renamed)
		}
	})

	t.Run("ReplaceByTitle stale revision", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.NewFixtures(t, repo).CreateList(ctx, "L", []models.User{testutil.Owner()})

		stale, _ := repo.GetByTitle(ctx, "L")
		if err := repo.PushItem(ctx, "L", testutil.NewItem("Concurrent")); err != nil {
			t.Fatalf("PushItem failed: %v", err)
		}

		stale.Items = []models.Item{}
		err := repo.ReplaceByTitle(ctx, "L", stale)
		if !errors.Is(err, liststore.ErrRevisionConflict) {
			t.Fatalf("expected ErrRevisionConflict, got %v", err)
		}

		got, _ := repo.GetByTitle(ctx, "L")
		if len(got.Items) != 1 {
			t.Errorf("expected concurrent item to survive, got %+v", got.Items)
		}
	})

	t.Run("ReplaceByTitle missing", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		err := repo.ReplaceByTitle(ctx, "Ghost", testutil.NewList("Ghost"))
		if !errors.Is(err, liststore.ErrListNotFound) {
			t.Errorf("expected ErrListNotFound, got %v", err)
		}
	})

	t.Run("PushItem", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := testutil.TestContext()
		defer cancel()

		testutil.NewFixtures(t, repo).CreateList(ctx, "L", []models.User{testutil.Owner()}, "A")

		if err := repo.PushItem(ctx, "L", testutil.NewItem("B")); err != nil {
			t.Fatalf("PushItem failed: %v", err)
		}
		got, _ := repo.GetByTitle(ctx, "L")
		if len(got.Items) != 2 || got.Items[1].Name != "B" {
			t.Errorf("expected B appended, got %+v", got.Items)
		}
		if got.Revision != 2 {
			t.Errorf("Revision after push: got %d, want 2", got.Revision)
		}

		err := repo.PushItem(ctx, "Ghost", testutil.NewItem("X"))
		if !errors.Is(err, liststore.ErrListNotFound) {
			t.Errorf("expected ErrListNotFound, got %v", err)
		}
	})
}
