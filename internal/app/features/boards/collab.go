// internal/app/features/boards/collab.go
package boardsfeat

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/boardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/collab"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
)

// CollabAuth handles POST /boards/{slug}/collab-auth: issues a room
// session token for the realtime provider. Rooms are keyed by the
// board's URL slug; members get read/write.
func (h *Handler) CollabAuth(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.Rooms == nil {
		envelope.Fail(w, http.StatusNotFound, "realtime collaboration is not configured")
		return
	}
	boardSlug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.Boards.GetBySlug(ctx, boardSlug)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "board not found")
			return
		}
		h.Log.Error("board fetch failed", zap.Error(err), zap.String("slug", boardSlug))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if !boardpolicy.CanView(principal, b) {
		envelope.Fail(w, http.StatusForbidden, "you are not a member of this board")
		return
	}

	token, err := h.Rooms.SessionToken(principal.Hex(), b.URL, []string{"read", "write"})
	if err != nil {
		h.Log.Error("session token issue failed", zap.Error(err), zap.String("slug", boardSlug))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]any{
		"token":     token,
		"room":      b.URL,
		"expiresIn": int(collab.TokenTTL.Seconds()),
	}, "collab session issued")
}
