// internal/app/features/cards/routes.go
package cardsfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the card routes under /cards. Card comments and
// attachments are mounted here too by bootstrap, keeping the /cards/{id}
// namespace in one place.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/me", h.AssignedToMe)
	r.Get("/{slug}", h.GetBySlug)
	r.Patch("/{id}", h.Update)
	r.Patch("/{id}/position", h.Reposition)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{userID}", h.RemoveMember)
	r.Delete("/{id}", h.Delete)
}
