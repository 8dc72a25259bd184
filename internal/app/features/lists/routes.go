// internal/app/features/lists/routes.go
package listsfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the list routes under /lists. The board-scoped
// read (GET /boards/{boardID}/lists) is mounted by bootstrap via
// ListForBoard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}/name", h.Rename)
	r.Patch("/{id}/position", h.Reposition)
	r.Delete("/{id}", h.Delete)
}
