// internal/app/features/lists/routes.go
package lists

import "github.com/go-chi/chi/v5"

// Routes mounts the list API under whatever base path the caller chooses
// (typically "/lists" from bootstrap).
//
//	h := lists.NewHandler(svc, errLog, logger)
//	r.Mount("/lists", lists.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Reads
	r.Get("/title/{title}", h.ServeItems)
	r.Get("/user/{userId}", h.ServeUserLists)

	// Lists
	r.Put("/", h.HandleAddList)
	r.Post("/{title}", h.HandleUpdateList)
	r.Delete("/{title}", h.HandleDeleteList)
	r.Delete("/{title}/clear", h.HandleClearList)
	r.Delete("/{title}/clearSelected", h.HandleClearSelected)

	// Items
	r.Put("/{title}/items", h.HandleAddItem)
	r.Post("/{title}/items/{itemName}", h.HandleUpdateItem)
	r.Delete("/{title}/items/{itemName}", h.HandleDeleteItem)

	return r
}
