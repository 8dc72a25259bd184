// internal/app/features/cards/members.go
package cardsfeat

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type memberRequest struct {
	UserID string `json:"userId"`
}

// AddMember handles POST /cards/{id}/members. The assignee must already
// be a board member.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cardID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid card id")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, b, ok := h.authorize(ctx, w, cardID, principal)
	if !ok {
		return
	}
	if !b.HasMember(userID) {
		envelope.Fail(w, http.StatusBadRequest, "user is not a member of the board")
		return
	}
	for _, m := range c.Members {
		if m == userID {
			envelope.Accepted(w, nil, "user is already on this card")
			return
		}
	}

	if err := h.Cards.AddMember(ctx, cardID, userID); err != nil {
		h.Log.Error("card member add failed", zap.Error(err),
			zap.String("card", cardID.Hex()), zap.String("user", userID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, h.assignees(ctx, append(c.Members, userID)), "member added to card")
}

// RemoveMember handles DELETE /cards/{id}/members/{userID} (idempotent).
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cardID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid card id")
		return
	}
	userID, ok := objectIDParam(r, "userID")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, _, ok := h.authorize(ctx, w, cardID, principal)
	if !ok {
		return
	}

	if err := h.Cards.PullMember(ctx, cardID, userID); err != nil {
		h.Log.Error("card member remove failed", zap.Error(err),
			zap.String("card", cardID.Hex()), zap.String("user", userID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	remaining := make([]primitive.ObjectID, 0, len(c.Members))
	for _, m := range c.Members {
		if m != userID {
			remaining = append(remaining, m)
		}
	}
	envelope.OK(w, h.assignees(ctx, remaining), "member removed from card")
}

// assignees projects the card's member ids to public users. The write
// has already committed, so a failed projection degrades to an empty
// list rather than an error.
func (h *Handler) assignees(ctx context.Context, ids []primitive.ObjectID) []models.PublicUser {
	users, err := h.Users.PublicByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("card assignee projection failed", zap.Error(err))
		return []models.PublicUser{}
	}
	return users
}
