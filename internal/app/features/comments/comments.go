// internal/app/features/comments/comments.go
package commentsfeat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/cardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/comments"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/paging"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type commentRequest struct {
	Content string `json:"content"`
}

// Create handles POST /cards/{cardID}/comments and bumps the card's
// comment tally.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cardID, ok := objectIDParam(r, "cardID")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid card id")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	content := strings.TrimSpace(h.Sanitize.Sanitize(req.Content))
	if content == "" {
		envelope.Fail(w, http.StatusBadRequest, "comment content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, _, ok := h.authorizeCard(ctx, w, cardID, principal)
	if !ok {
		return
	}

	cm, err := h.Comments.Create(ctx, models.Comment{
		Content: content,
		Card:    cardID,
		Board:   c.Board,
		Owner:   principal,
	})
	if err != nil {
		h.Log.Error("comment create failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.Cards.AdjustCounter(ctx, cardID, "comment_count", 1); err != nil {
		h.Log.Warn("comment tally bump failed", zap.Error(err), zap.String("card", cardID.Hex()))
	}

	envelope.Created(w, cm, "comment added")
}

// ListForCard handles GET /cards/{cardID}/comments, newest first,
// paginated, owners expanded.
func (h *Handler) ListForCard(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cardID, ok := objectIDParam(r, "cardID")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid card id")
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, _, ok := h.authorizeCard(ctx, w, cardID, principal); !ok {
		return
	}

	comments, err := h.Comments.ListForCard(ctx, cardID, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("comment list failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, comments, "comments fetched")
}

// Update handles PATCH /comments/{id}. Only the comment's owner may
// edit its text.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	commentID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	content := strings.TrimSpace(h.Sanitize.Sanitize(req.Content))
	if content == "" {
		envelope.Fail(w, http.StatusBadRequest, "comment content cannot be blank")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cm, _, ok := h.fetchComment(ctx, w, commentID)
	if !ok {
		return
	}
	if cm.Owner != principal {
		envelope.Fail(w, http.StatusForbidden, "only the comment's author can edit it")
		return
	}

	if err := h.Comments.SetContent(ctx, commentID, content); err != nil {
		h.Log.Error("comment update failed", zap.Error(err), zap.String("comment", commentID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]string{"content": content}, "comment updated")
}

// Delete handles DELETE /comments/{id}: the comment's owner or the
// board admin.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	commentID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cm, b, ok := h.fetchComment(ctx, w, commentID)
	if !ok {
		return
	}
	if !cardpolicy.CanDeleteComment(principal, cm, b) {
		envelope.Fail(w, http.StatusForbidden, "only the comment's author or the board admin can delete it")
		return
	}

	n, err := h.Comments.Delete(ctx, commentID)
	if err != nil {
		h.Log.Error("comment delete failed", zap.Error(err), zap.String("comment", commentID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if n > 0 {
		if err := h.Cards.AdjustCounter(ctx, cm.Card, "comment_count", -1); err != nil {
			h.Log.Warn("comment tally decrement failed", zap.Error(err), zap.String("card", cm.Card.Hex()))
		}
	}

	envelope.OK(w, nil, "comment deleted")
}

// authorizeCard fetches the card and its board and enforces membership.
func (h *Handler) authorizeCard(ctx context.Context, w http.ResponseWriter, cardID, principal primitive.ObjectID) (models.Card, models.Board, bool) {
	c, err := h.Cards.GetByID(ctx, cardID)
	if err != nil {
		if err == cardstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "card not found"))
		} else {
			h.Log.Error("card fetch failed", zap.Error(err), zap.String("card", cardID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Card{}, models.Board{}, false
	}

	b, err := h.Boards.GetByID(ctx, c.Board)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "board not found"))
		} else {
			h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", c.Board.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Card{}, models.Board{}, false
	}

	if !cardpolicy.CanMutate(principal, b) {
		envelope.Error(w, apierr.New(apierr.Forbidden, "you are not a member of this board"))
		return models.Card{}, models.Board{}, false
	}
	return c, b, true
}

// fetchComment loads the comment and its board; authorization happens
// at the call site because delete and edit scopes differ.
func (h *Handler) fetchComment(ctx context.Context, w http.ResponseWriter, commentID primitive.ObjectID) (models.Comment, models.Board, bool) {
	cm, err := h.Comments.GetByID(ctx, commentID)
	if err != nil {
		if err == commentstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "comment not found"))
		} else {
			h.Log.Error("comment fetch failed", zap.Error(err), zap.String("comment", commentID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Comment{}, models.Board{}, false
	}

	b, err := h.Boards.GetByID(ctx, cm.Board)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "board not found"))
		} else {
			h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", cm.Board.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Comment{}, models.Board{}, false
	}
	return cm, b, true
}

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
