// internal/app/features/auth/routes.go
package authfeat

import (
	"github.com/go-chi/chi/v5"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
)

// MountRoutes mounts the auth routes. Registration, login, verification,
// and the OAuth flow are public; logout and current require a session.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/check-username", h.CheckUsername)
	r.Post("/verify", h.VerifyEmail)
	r.Post("/resend-code", h.ResendCode)
	r.Get("/google", h.GoogleLogin)
	r.Get("/google/callback", h.GoogleCallback)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Post("/logout", h.Logout)
		r.Get("/current", h.Current)
	})
}
