// internal/app/features/checklists/checklists.go
package checklistsfeat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/cardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/checklists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type createChecklistRequest struct {
	Card string `json:"card"`
	Name string `json:"name"`
}

// Create handles POST /checklists and bumps the owning card's tally.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cardID, err := primitive.ObjectIDFromHex(req.Card)
	if err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid card id")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "checklist name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.authorizeCard(ctx, w, cardID, principal)
	if !ok {
		return
	}

	cl, err := h.Checklists.Create(ctx, models.Checklist{
		Name:      name,
		Card:      cardID,
		Board:     c.Board,
		CreatedBy: principal,
	})
	if err != nil {
		h.Log.Error("checklist create failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.Cards.AdjustCounter(ctx, cardID, "checklist_count", 1); err != nil {
		h.Log.Warn("checklist tally bump failed", zap.Error(err), zap.String("card", cardID.Hex()))
	}

	envelope.Created(w, cl, "checklist created")
}

// ListForCard handles GET /cards/{cardID}/checklists: checklists with
// their todos joined in position order.
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, ok := h.authorizeCard(ctx, w, cardID, principal); !ok {
		return
	}

	lists, err := h.Checklists.ListForCard(ctx, cardID)
	if err != nil {
		h.Log.Error("checklist fetch failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, lists, "checklists fetched")
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename handles PATCH /checklists/{id}/name.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	checklistID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid checklist id")
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "checklist name cannot be blank")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.authorizeChecklist(ctx, w, checklistID, principal); !ok {
		return
	}

	if err := h.Checklists.Rename(ctx, checklistID, name); err != nil {
		h.Log.Error("checklist rename failed", zap.Error(err), zap.String("checklist", checklistID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]string{"name": name}, "checklist renamed")
}

// Delete handles DELETE /checklists/{id}: the checklist and its todos,
// keeping the card's tally in step.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	checklistID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid checklist id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	cl, ok := h.authorizeChecklist(ctx, w, checklistID, principal)
	if !ok {
		return
	}

	if err := h.Cascade.DeleteChecklist(ctx, checklistID, cl.Card); err != nil {
		h.Log.Error("checklist cascade delete failed", zap.Error(err), zap.String("checklist", checklistID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, nil, "checklist deleted")
}

// authorizeCard fetches the card and its board and enforces membership.
func (h *Handler) authorizeCard(ctx context.Context, w http.ResponseWriter, cardID, principal primitive.ObjectID) (models.Card, bool) {
	c, err := h.Cards.GetByID(ctx, cardID)
	if err != nil {
		if err == cardstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "card not found"))
		} else {
			h.Log.Error("card fetch failed", zap.Error(err), zap.String("card", cardID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Card{}, false
	}
	if !h.boardMember(ctx, w, c.Board, principal) {
		return models.Card{}, false
	}
	return c, true
}

// authorizeChecklist fetches the checklist and enforces membership on
// its denormalized board.
func (h *Handler) authorizeChecklist(ctx context.Context, w http.ResponseWriter, checklistID, principal primitive.ObjectID) (models.Checklist, bool) {
	cl, err := h.Checklists.GetByID(ctx, checklistID)
	if err != nil {
		if err == checkliststore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "checklist not found"))
		} else {
			h.Log.Error("checklist fetch failed", zap.Error(err), zap.String("checklist", checklistID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Checklist{}, false
	}
	if !h.boardMember(ctx, w, cl.Board, principal) {
		return models.Checklist{}, false
	}
	return cl, true
}

func (h *Handler) boardMember(ctx context.Context, w http.ResponseWriter, boardID, principal primitive.ObjectID) bool {
	b, err := h.Boards.GetByID(ctx, boardID)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "board not found"))
		} else {
			h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", boardID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return false
	}
	if !cardpolicy.CanMutate(principal, b) {
		envelope.Error(w, apierr.New(apierr.Forbidden, "you are not a member of this board"))
		return false
	}
	return true
}

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
