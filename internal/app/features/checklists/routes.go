// internal/app/features/checklists/routes.go
package checklistsfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the checklist routes under /checklists. The
// card-scoped read (GET /cards/{cardID}/checklists) is mounted by
// bootstrap via ListForCard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}/name", h.Rename)
	r.Delete("/{id}", h.Delete)
}
