// internal/app/features/users/routes.go
package usersfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the user routes. All require a session; the
// mounting router applies RequireSignedIn.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/search", h.Search)
	r.Patch("/me", h.UpdateMe)
	r.Get("/{username}", h.Profile)
}
