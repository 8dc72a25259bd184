// internal/app/features/attachments/routes.go
package attachmentsfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the attachment routes under /attachments.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Patch("/{id}/name", h.Rename)
	r.Delete("/{id}", h.Delete)
}

// MountCardRoutes mounts the card-scoped attachment routes; bootstrap
// attaches them under /cards.
func (h *Handler) MountCardRoutes(r chi.Router) {
	r.Post("/{cardID}/attachments", h.Create)
	r.Get("/{cardID}/attachments", h.ListForCard)
}
