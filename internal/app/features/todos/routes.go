// internal/app/features/todos/routes.go
package todosfeat

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the todo routes under /todos.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Patch("/{id}/position", h.Reposition)
	r.Post("/{id}/assign", h.Assign)
	r.Delete("/{id}/assign/{userID}", h.Unassign)
	r.Delete("/{id}", h.Delete)
}
