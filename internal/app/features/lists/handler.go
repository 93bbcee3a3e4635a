// internal/app/features/lists/handler.go
package lists

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	uierrors "github.com/dalemusser/shoppingo/internal/app/features/errors"
	listsvc "github.com/dalemusser/shoppingo/internal/app/lists"
	"github.com/dalemusser/shoppingo/internal/app/system/htmlsanitize"
	"github.com/dalemusser/shoppingo/internal/app/system/normalize"
	"github.com/dalemusser/shoppingo/internal/app/system/timeouts"
	"github.com/dalemusser/shoppingo/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Handler-level validation messages.
const (
	msgInvalidBody    = "Invalid request body"
	msgUpdateRequired = "newItemName or isSelected is required"
)

// Handler owns the list API. It is constructed once at startup in
// bootstrap with the shared list service and logger.
type Handler struct {
	Svc    *listsvc.Service
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to svc.
func NewHandler(svc *listsvc.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:    svc,
		Log:    logger,
		ErrLog: errLog,
	}
}

type addListRequest struct {
	Title         string      `json:"title"`
	DateAdded     *time.Time  `json:"dateAdded"`
	User          models.User `json:"user"`
	SelectedUsers []string    `json:"selectedUsers"`
}

type addItemRequest struct {
	ItemName  string     `json:"itemName"`
	DateAdded *time.Time `json:"dateAdded"`
}

type updateItemRequest struct {
	NewItemName *string `json:"newItemName"`
	IsSelected  *bool   `json:"isSelected"`
}

type updateListRequest struct {
	NewTitle string `json:"newTitle"`
}

// ServeItems handles GET /lists/title/{title}.
func (h *Handler) ServeItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get list items")
	defer cancel()

	items, err := h.Svc.GetListItems(ctx, urlParam(r, "title"))
	if err != nil {
		h.ErrLog.Write(w, r, "get list items", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, items)
}

// ServeUserLists handles GET /lists/user/{userId}.
func (h *Handler) ServeUserLists(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get lists for user")
	defer cancel()

	views, err := h.Svc.GetListsForUser(ctx, urlParam(r, "userId"))
	if err != nil {
		h.ErrLog.Write(w, r, "get lists for user", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, views)
}

// HandleAddList handles PUT /lists.
func (h *Handler) HandleAddList(w http.ResponseWriter, r *http.Request) {
	var req addListRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add list")
	defer cancel()

	owner := models.User{
		ID:       normalize.Name(req.User.ID),
		Username: htmlsanitize.PlainText(normalize.Name(req.User.Username)),
	}
	l, err := h.Svc.AddList(ctx,
		htmlsanitize.PlainText(req.Title),
		timeOrZero(req.DateAdded),
		owner,
		normalize.Usernames(req.SelectedUsers))
	if err != nil {
		h.ErrLog.Write(w, r, "add list", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, l)
}

// HandleAddItem handles PUT /lists/{title}/items.
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add item")
	defer cancel()

	item, err := h.Svc.AddItem(ctx, urlParam(r, "title"), htmlsanitize.PlainText(req.ItemName), timeOrZero(req.DateAdded))
	if err != nil {
		h.ErrLog.Write(w, r, "add item", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, item)
}

// HandleUpdateItem handles POST /lists/{title}/items/{itemName}. A body
// with newItemName renames the item; otherwise isSelected sets its flag.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update item")
	defer cancel()

	title, itemName := urlParam(r, "title"), urlParam(r, "itemName")

	switch {
	case req.NewItemName != nil:
		res, err := h.Svc.UpdateItemName(ctx, title, itemName, htmlsanitize.PlainText(*req.NewItemName))
		if err != nil {
			h.ErrLog.Write(w, r, "update item name", err)
			return
		}
		uierrors.WriteJSON(w, http.StatusOK, res)
	case req.IsSelected != nil:
		res, err := h.Svc.SetItemSelected(ctx, title, itemName, *req.IsSelected)
		if err != nil {
			h.ErrLog.Write(w, r, "set item selected", err)
			return
		}
		uierrors.WriteJSON(w, http.StatusOK, res)
	default:
		uierrors.WriteError(w, http.StatusBadRequest, listsvc.KindValidation.String(), msgUpdateRequired)
	}
}

// HandleDeleteItem handles DELETE /lists/{title}/items/{itemName}.
func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete item")
	defer cancel()

	l, err := h.Svc.DeleteItem(ctx, urlParam(r, "title"), urlParam(r, "itemName"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete item", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, l)
}

// HandleDeleteList handles DELETE /lists/{title}.
func (h *Handler) HandleDeleteList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete list")
	defer cancel()

	res, err := h.Svc.DeleteList(ctx, urlParam(r, "title"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete list", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res)
}

// HandleUpdateList handles POST /lists/{title}.
func (h *Handler) HandleUpdateList(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update list title")
	defer cancel()

	res, err := h.Svc.UpdateListTitle(ctx, urlParam(r, "title"), htmlsanitize.PlainText(req.NewTitle))
	if err != nil {
		h.ErrLog.Write(w, r, "update list title", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res)
}

// HandleClearList handles DELETE /lists/{title}/clear.
func (h *Handler) HandleClearList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "clear list")
	defer cancel()

	l, err := h.Svc.ClearList(ctx, urlParam(r, "title"))
	if err != nil {
		h.ErrLog.Write(w, r, "clear list", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, l)
}

// HandleClearSelected handles DELETE /lists/{title}/clearSelected.
func (h *Handler) HandleClearSelected(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "clear selected items")
	defer cancel()

	l, err := h.Svc.ClearSelectedItems(ctx, urlParam(r, "title"))
	if err != nil {
		h.ErrLog.Write(w, r, "clear selected items", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, l)
}

// decode reads a JSON body into v. On failure it writes 400 and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.Log.Debug("invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
		uierrors.WriteError(w, http.StatusBadRequest, listsvc.KindValidation.String(), msgInvalidBody)
		return false
	}
	return true
}

// urlParam returns the chi URL parameter key. chi routes on RawPath when it
// is set, so only then is the captured segment still escaped.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
