// internal/app/features/cards/cards.go
package cardsfeat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/cardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/lists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/events"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/paging"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/slug"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

const positionGap = 1024

type createCardRequest struct {
	List string `json:"list"`
	Name string `json:"name"`
}

// Create handles POST /cards. The new card appends at the end of its
// list; the board reference is denormalized from the list.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	listID, err := primitive.ObjectIDFromHex(req.List)
	if err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid list id")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "card name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	l, err := h.Lists.GetByID(ctx, listID)
	if err != nil {
		if err == liststore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "list not found")
			return
		}
		h.Log.Error("list fetch failed", zap.Error(err), zap.String("list", listID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	b, err := h.Boards.GetByID(ctx, l.Board)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "board not found")
			return
		}
		h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", l.Board.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if !cardpolicy.CanMutate(principal, b) {
		envelope.Fail(w, http.StatusForbidden, "you are not a member of this board")
		return
	}

	maxPos, err := h.Cards.MaxPosition(ctx, listID)
	if err != nil {
		h.Log.Error("max position lookup failed", zap.Error(err), zap.String("list", listID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	var c models.Card
	for attempt := 0; attempt < 3; attempt++ {
		c, err = h.Cards.Create(ctx, models.Card{
			Name:     name,
			Slug:     slug.New(slug.DefaultLength),
			List:     listID,
			Board:    l.Board,
			Position: maxPos + positionGap,
		})
		if err != cardstore.ErrDuplicateSlug {
			break
		}
	}
	if err != nil {
		h.Log.Error("card create failed", zap.Error(err), zap.String("list", listID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	_ = h.Boards.Touch(ctx, l.Board)
	envelope.Created(w, c, "card created")
}

// GetBySlug handles GET /cards/{slug}: the card detail projection with
// members expanded and checklists joined.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cardSlug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Resolve the card first: the authorization check only needs its
	// board reference, and the detail aggregation runs after the caller
	// is cleared to see it.
	c, err := h.Cards.GetBySlug(ctx, cardSlug)
	if err != nil {
		if err == cardstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "card not found"))
			return
		}
		h.Log.Error("card fetch failed", zap.Error(err), zap.String("slug", cardSlug))
		envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		return
	}

	b, err := h.Boards.GetByID(ctx, c.Board)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "board not found"))
			return
		}
		h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", c.Board.Hex()))
		envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		return
	}
	if !cardpolicy.CanView(principal, b) {
		envelope.Error(w, apierr.New(apierr.Forbidden, "you are not a member of this board"))
		return
	}

	detail, err := h.Cards.GetDetail(ctx, bson.M{"_id": c.ID})
	if err != nil {
		h.Log.Error("card detail fetch failed", zap.Error(err), zap.String("slug", cardSlug))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, detail, "card fetched")
}

// AssignedToMe handles GET /cards/me: cards across all boards where the
// caller is a member, most recently updated first.
func (h *Handler) AssignedToMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cards, err := h.Cards.ListAssignedTo(ctx, principal, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("assigned card list failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, cards, "cards fetched")
}

type updateCardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	// DueDate is RFC 3339; an explicit empty string clears it.
	DueDate *string `json:"dueDate"`
}

// Update handles PATCH /cards/{id}. Absent fields are left unchanged.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req updateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil && req.Description == nil && req.DueDate == nil {
		envelope.Fail(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, _, ok := h.authorize(ctx, w, cardID, principal)
	if !ok {
		return
	}

	if req.Name != nil {
		name := normalize.Name(*req.Name)
		if name == "" {
			envelope.Fail(w, http.StatusBadRequest, "card name cannot be blank")
			return
		}
		if err := h.Cards.Rename(ctx, cardID, name); err != nil {
			h.Log.Error("card rename failed", zap.Error(err), zap.String("card", cardID.Hex()))
			envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
			return
		}
	}
	if req.Description != nil {
		clean := h.Sanitize.Sanitize(*req.Description)
		if err := h.Cards.SetDescription(ctx, cardID, clean); err != nil {
			h.Log.Error("card description update failed", zap.Error(err), zap.String("card", cardID.Hex()))
			envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
			return
		}
	}
	if req.DueDate != nil {
		var due *time.Time
		if *req.DueDate != "" {
			t, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				envelope.Fail(w, http.StatusBadRequest, "dueDate must be RFC 3339")
				return
			}
			due = &t
		}
		if err := h.Cards.SetDueDate(ctx, cardID, due); err != nil {
			h.Log.Error("card due date update failed", zap.Error(err), zap.String("card", cardID.Hex()))
			envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
			return
		}
	}

	updated, err := h.Cards.GetByID(ctx, cardID)
	if err != nil {
		h.Log.Error("card refetch failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	_ = h.Boards.Touch(ctx, c.Board)
	envelope.OK(w, updated, "card updated")
}

// Reposition handles PATCH /cards/{id}/position?pos=&list=. With a list
// parameter the card moves to that list (same board only); without one
// only the ordering key changes. Either way a CardMoved event goes out.
func (h *Handler) Reposition(w http.ResponseWriter, r *http.Request) {
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
	pos, ok := paging.ParsePos(r)
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "pos must be a non-negative number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, b, ok := h.authorize(ctx, w, cardID, principal)
	if !ok {
		return
	}

	targetList := c.List
	if raw := r.URL.Query().Get("list"); raw != "" {
		listID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			envelope.Fail(w, http.StatusBadRequest, "invalid list id")
			return
		}
		if listID != c.List {
			l, err := h.Lists.GetByID(ctx, listID)
			if err != nil {
				if err == liststore.ErrNotFound {
					envelope.Fail(w, http.StatusNotFound, "target list not found")
					return
				}
				h.Log.Error("list fetch failed", zap.Error(err), zap.String("list", listID.Hex()))
				envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
				return
			}
			if l.Board != c.Board {
				envelope.Fail(w, http.StatusBadRequest, "target list belongs to a different board")
				return
			}
		}
		targetList = listID
	}

	if err := h.Cards.Move(ctx, cardID, targetList, pos); err != nil {
		h.Log.Error("card move failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.Bus.Publish(events.Event{
		Type:  events.TypeCardMoved,
		Board: b.URL,
		Payload: events.CardMoved{
			CardID:   cardID.Hex(),
			ListID:   targetList.Hex(),
			Position: pos,
		},
	})

	_ = h.Boards.Touch(ctx, c.Board)
	envelope.OK(w, map[string]any{"list": targetList.Hex(), "position": pos}, "card repositioned")
}

// Delete handles DELETE /cards/{id}: the card and its descendants.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	c, _, ok := h.authorize(ctx, w, cardID, principal)
	if !ok {
		return
	}

	if err := h.Cascade.DeleteCard(ctx, cardID); err != nil {
		h.Log.Error("card cascade delete failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	_ = h.Boards.Touch(ctx, c.Board)
	envelope.OK(w, nil, "card deleted")
}

// authorize fetches the card and its board and enforces membership. On
// failure it classifies the error and writes the response, returning
// ok=false.
func (h *Handler) authorize(ctx context.Context, w http.ResponseWriter, cardID, principal primitive.ObjectID) (models.Card, models.Board, bool) {
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

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
