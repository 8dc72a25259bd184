// internal/app/features/collections/routes.go
package collectionsfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the collection routes under /collections.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/name", h.Rename)
	r.Post("/{id}/boards/{boardID}", h.AddBoard)
	r.Delete("/{id}/boards/{boardID}", h.RemoveBoard)
	r.Delete("/{id}", h.Delete)
}
