// internal/app/features/boards/star.go
package boardsfeat

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/boardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/events"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
)

// ToggleStar handles POST /boards/{id}/star. The toggle is self-inverse
// and the response reports the resulting state; the same state goes out
// as a typed event so repeat delivery is harmless.
func (h *Handler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	boardID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid board id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, err := h.Boards.GetByID(ctx, boardID)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "board not found")
			return
		}
		h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", boardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if !boardpolicy.CanMutate(principal, b) {
		envelope.Fail(w, http.StatusForbidden, "you are not a member of this board")
		return
	}

	u, err := h.Users.GetByID(ctx, principal)
	if err != nil {
		h.Log.Error("user fetch failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	starred := !u.HasStarred(boardID)
	if starred {
		err = h.Users.AddStar(ctx, principal, boardID)
	} else {
		err = h.Users.RemoveStar(ctx, principal, boardID)
	}
	if err != nil {
		h.Log.Error("star toggle failed", zap.Error(err),
			zap.String("board", boardID.Hex()), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.Bus.Publish(events.Event{
		Type:  events.TypeBoardStarred,
		Board: b.URL,
		Payload: events.BoardStarred{
			BoardID: boardID.Hex(),
			UserID:  principal.Hex(),
			Starred: starred,
		},
	})

	msg := "board unstarred"
	if starred {
		msg = "board starred"
	}
	envelope.OK(w, map[string]bool{"starred": starred}, msg)
}
