// internal/app/features/boards/routes.go
package boardsfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the board routes. The mounting router applies
// RequireSignedIn; slug-keyed reads and id-keyed mutations coexist
// because slugs are never 24 hex characters.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/starred", h.Starred)
	r.Get("/{slug}", h.GetBySlug)
	r.Get("/{slug}/events", h.Events)
	r.Post("/{slug}/collab-auth", h.CollabAuth)
	r.Patch("/{id}/name", h.Rename)
	r.Post("/{id}/star", h.ToggleStar)
	r.Post("/{id}/members", h.InviteMember)
	r.Delete("/{id}/members/{userID}", h.RemoveMember)
	r.Delete("/{id}", h.Delete)
}
