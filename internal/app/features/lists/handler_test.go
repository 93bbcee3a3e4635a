package lists_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/shoppingo/internal/app/features/errors"
	listsfeature "github.com/dalemusser/shoppingo/internal/app/features/lists"
	listsvc "github.com/dalemusser/shoppingo/internal/app/lists"
	liststore "github.com/dalemusser/shoppingo/internal/app/store/lists"
	"github.com/dalemusser/shoppingo/internal/app/system/idgen"
	"github.com/dalemusser/shoppingo/internal/domain/models"
	"github.com/dalemusser/shoppingo/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

type directory map[string]models.User

func (d directory) GetUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	var out []models.User
	for _, n := range usernames {
		if u, ok := d[n]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

var owner = models.User{ID: "u1", Username: "owner"}

type errBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newRouter(t *testing.T) (http.Handler, *liststore.Memory) {
	t.Helper()
	repo := liststore.NewMemory()
	auth := directory{"alice": {ID: "ua", Username: "alice"}}
	svc := listsvc.NewService(repo, idgen.UUID{}, auth, zap.NewNop())
	h := listsfeature.NewHandler(svc, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/lists", listsfeature.Routes(h))
	return r, repo
}

func do(t *testing.T, h http.Handler, req *http.Request) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, repo *liststore.Memory, title string, items ...string) {
	t.Helper()
	testutil.NewFixtures(t, repo).CreateList(context.Background(), title, []models.User{owner}, items...)
}

func TestAddList(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(t, h, testutil.NewJSONRequest(t, http.MethodPut, "/lists", map[string]any{
		"title":         "<b>Groceries</b>",
		"dateAdded":     "2024-03-01T12:00:00Z",
		"user":          owner,
		"selectedUsers": []string{" alice ", ""},
	}))
	rec.AssertStatus(t, http.StatusOK)

	var got models.List
	rec.DecodeJSON(t, &got)
	if got.Title != "Groceries" {
		t.Errorf("Title: got %q, want markup stripped", got.Title)
	}
	if !got.DateAdded.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("DateAdded: got %v", got.DateAdded)
	}
	want := []models.User{{ID: "ua", Username: "alice"}, owner}
	if diff := cmp.Diff(want, got.Users); diff != "" {
		t.Errorf("users mismatch (-want +got):\n%s", diff)
	}
	if got.ID == "" {
		t.Error("expected id in response")
	}
}

func TestAddList_Errors(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "Taken")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   errBody
	}{
		{"malformed json", `{"title":`, http.StatusBadRequest, errBody{"Invalid request body", "validation"}},
		{"blank title", `{"title":"  ","user":{"id":"u1","username":"owner"}}`, http.StatusBadRequest, errBody{listsvc.MsgTitleRequired, "validation"}},
		{"duplicate", `{"title":"Taken","user":{"id":"u1","username":"owner"}}`, http.StatusConflict, errBody{listsvc.MsgListTitleTaken, "conflict"}},
		{"unknown users", `{"title":"New","user":{"id":"u1","username":"owner"},"selectedUsers":["ghost"]}`, http.StatusBadRequest, errBody{listsvc.MsgNoUsersFound, "validation"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/lists", strings.NewReader(tt.body))
			rec := do(t, h, req)
			rec.AssertStatus(t, tt.wantStatus)

			var got errBody
			rec.DecodeJSON(t, &got)
			if diff := cmp.Diff(tt.wantBody, got); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetItems(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "Weekly Shop", "Milk", "Bread")

	rec := do(t, h, testutil.NewRequest(http.MethodGet, "/lists/title/Weekly%20Shop"))
	rec.AssertStatus(t, http.StatusOK)

	var items []models.Item
	rec.DecodeJSON(t, &items)
	if len(items) != 2 || items[0].Name != "Milk" || items[1].Name != "Bread" {
		t.Errorf("unexpected items: %+v", items)
	}

	rec = do(t, h, testutil.NewRequest(http.MethodGet, "/lists/title/Missing"))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, listsvc.MsgListNotFound)
}

func TestGetListsForUser_HidesUserIDs(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "Mine", "Milk")

	rec := do(t, h, testutil.NewRequest(http.MethodGet, "/lists/user/"+owner.ID))
	rec.AssertStatus(t, http.StatusOK)

	var views []models.ListView
	rec.DecodeJSON(t, &views)
	if len(views) != 1 || views[0].Title != "Mine" {
		t.Fatalf("unexpected views: %+v", views)
	}
	if strings.Contains(rec.Body.String(), `"`+owner.ID+`"`) {
		t.Errorf("response leaks user id: %s", rec.Body.String())
	}
}

func TestAddItem(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "L")

	rec := do(t, h, testutil.NewJSONRequest(t, http.MethodPut, "/lists/L/items", map[string]any{"itemName": "Milk"}))
	rec.AssertStatus(t, http.StatusOK)

	var item models.Item
	rec.DecodeJSON(t, &item)
	if item.Name != "Milk" || item.IsSelected || item.ID == "" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.DateAdded.IsZero() {
		t.Error("expected dateAdded to default to now")
	}

	rec = do(t, h, testutil.NewJSONRequest(t, http.MethodPut, "/lists/Missing/items", map[string]any{"itemName": "Milk"}))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestUpdateItem_Dispatch(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "Groceries", "Milk")

	rec := do(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/lists/Groceries/items/Milk", map[string]any{"newItemName": "Oat Milk"}))
	rec.AssertStatus(t, http.StatusOK)
	var renamed listsvc.ItemRenamed
	rec.DecodeJSON(t, &renamed)
	if diff := cmp.Diff(listsvc.ItemRenamed{Message: listsvc.MsgItemNameUpdated, NewItemName: "Oat Milk"}, renamed); diff != "" {
		t.Errorf("rename result mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/lists/Groceries/items/Oat%20Milk", map[string]any{"isSelected": true}))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, listsvc.MsgItemUpdated)

	l, _ := repo.GetByTitle(context.Background(), "Groceries")
	if len(l.Items) != 1 || l.Items[0].Name != "Oat Milk" || !l.Items[0].IsSelected {
		t.Errorf("unexpected stored items: %+v", l.Items)
	}

	rec = do(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/lists/Groceries/items/Oat%20Milk", map[string]any{}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "newItemName or isSelected is required")

	rec = do(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/lists/Groceries/items/Oat%20Milk", map[string]any{"newItemName": "Oat Milk"}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, listsvc.MsgItemNameUnchanged)
}

func TestUpdateList(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "Old")
	seed(t, repo, "Other")

	rec := do(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/lists/Old", map[string]any{"newTitle": "Other"}))
	rec.AssertStatus(t, http.StatusConflict)

	rec = do(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/lists/Old", map[string]any{"newTitle": "New"}))
	rec.AssertStatus(t, http.StatusOK)
	var res listsvc.ListRenamed
	rec.DecodeJSON(t, &res)
	if res.NewTitle != "New" || res.Message != listsvc.MsgListTitleUpdated {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestDeleteRoutes(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "L", "A", "B", "C")
	ctx := context.Background()

	l, _ := repo.GetByTitle(ctx, "L")
	l.Items[1].IsSelected = true
	if err := repo.ReplaceByTitle(ctx, "L", l); err != nil {
		t.Fatalf("select item: %v", err)
	}

	rec := do(t, h, testutil.NewRequest(http.MethodDelete, "/lists/L/clearSelected"))
	rec.AssertStatus(t, http.StatusOK)
	var got models.List
	rec.DecodeJSON(t, &got)
	if len(got.Items) != 2 {
		t.Errorf("clearSelected: expected 2 items, got %+v", got.Items)
	}

	rec = do(t, h, testutil.NewRequest(http.MethodDelete, "/lists/L/items/A"))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if len(got.Items) != 1 || got.Items[0].Name != "C" {
		t.Errorf("delete item: unexpected items %+v", got.Items)
	}

	rec = do(t, h, testutil.NewRequest(http.MethodDelete, "/lists/L/clear"))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if len(got.Items) != 0 {
		t.Errorf("clear: expected no items, got %+v", got.Items)
	}

	rec = do(t, h, testutil.NewRequest(http.MethodDelete, "/lists/L"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, listsvc.MsgListDeleted)

	// Deleting again still succeeds.
	rec = do(t, h, testutil.NewRequest(http.MethodDelete, "/lists/L"))
	rec.AssertStatus(t, http.StatusOK)

	rec = do(t, h, testutil.NewRequest(http.MethodDelete, "/lists/L/clear"))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeItems_DirectWithURLParam(t *testing.T) {
	repo := liststore.NewMemory()
	seed(t, repo, "Direct", "Eggs")
	svc := listsvc.NewService(repo, idgen.UUID{}, nil, zap.NewNop())
	h := listsfeature.NewHandler(svc, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/"), "title", "Direct")
	rec := testutil.NewRecorder()
	h.ServeItems(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Eggs")
}

func TestTitlesArePercentDecodedOnce(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "Sale %41", "Socks")
	seed(t, repo, "Sale A", "Hats")
	seed(t, repo, "Home/Garden", "Rake")
	ctx := context.Background()

	rec := do(t, h, testutil.NewRequest(http.MethodGet, "/lists/title/Sale%20%2541"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Socks")

	rec = do(t, h, testutil.NewRequest(http.MethodGet, "/lists/title/Home%2FGarden"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Rake")

	rec = do(t, h, testutil.NewRequest(http.MethodDelete, "/lists/Sale%20%2541"))
	rec.AssertStatus(t, http.StatusOK)

	if l, _ := repo.GetByTitle(ctx, "Sale %41"); l != nil {
		t.Error(`expected "Sale %41" to be deleted`)
	}
	if l, _ := repo.GetByTitle(ctx, "Sale A"); l == nil {
		t.Error(`"Sale A" must survive deleting "Sale %41"`)
	}
}

func TestItemNamesArePercentDecodedOnce(t *testing.T) {
	h, repo := newRouter(t)
	seed(t, repo, "L", "50%25 off", "50% off")

	rec := do(t, h, testutil.NewRequest(http.MethodDelete, "/lists/L/items/50%2525%20off"))
	rec.AssertStatus(t, http.StatusOK)

	var got models.List
	rec.DecodeJSON(t, &got)
	if len(got.Items) != 1 || got.Items[0].Name != "50% off" {
		t.Errorf("unexpected items %+v", got.Items)
	}
}
