// internal/app/features/comments/routes.go
package commentsfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the comment routes under /comments.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// MountCardRoutes mounts the card-scoped comment routes; bootstrap
// attaches them under /cards.
func (h *Handler) MountCardRoutes(r chi.Router) {
	r.Post("/{cardID}/comments", h.Create)
	r.Get("/{cardID}/comments", h.ListForCard)
}
