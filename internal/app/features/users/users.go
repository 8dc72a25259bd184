// internal/app/features/users/users.go
package usersfeat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/paging"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
)

// Search handles GET /users/search?q=...&page=&limit=, the invite
// picker's lookup. Matches username or full-name prefix.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := normalize.Name(r.URL.Query().Get("q"))
	if q == "" {
		envelope.Fail(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users, err := h.Users.Search(ctx, q, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("user search failed", zap.Error(err), zap.String("q", q))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, users, "users fetched")
}

// Profile handles GET /users/{username}, returning the public
// projection only.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	username := normalize.Username(chi.URLParam(r, "username"))
	if username == "" {
		envelope.Fail(w, http.StatusBadRequest, "username is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if err == userstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("profile lookup failed", zap.Error(err), zap.String("username", username))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, u.Public(), "user fetched")
}

type updateMeRequest struct {
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// UpdateMe handles PATCH /users/me. Absent fields are left unchanged.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fullName := normalize.Name(req.FullName)
	if fullName == "" && req.Avatar == "" {
		envelope.Fail(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Users.UpdateProfile(ctx, principal, fullName, normalize.Initials(fullName), req.Avatar)
	if err != nil {
		if err == userstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("profile update failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	u, err := h.Users.GetByID(ctx, principal)
	if err != nil {
		h.Log.Error("profile refetch failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, u, "profile updated")
}
