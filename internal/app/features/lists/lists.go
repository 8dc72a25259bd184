// internal/app/features/lists/lists.go
package listsfeat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/cardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/lists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/paging"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

// positionGap leaves room to reposition between neighbors without
// rewriting siblings.
const positionGap = 1024

type createListRequest struct {
	Board string `json:"board"`
	Name  string `json:"name"`
}

// Create handles POST /lists. The new list appends after the board's
// current last position.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	boardID, err := primitive.ObjectIDFromHex(req.Board)
	if err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid board id")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "list name is required")
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
	if !cardpolicy.CanMutate(principal, b) {
		envelope.Fail(w, http.StatusForbidden, "you are not a member of this board")
		return
	}

	maxPos, err := h.Lists.MaxPosition(ctx, boardID)
	if err != nil {
		h.Log.Error("max position lookup failed", zap.Error(err), zap.String("board", boardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	l, err := h.Lists.Create(ctx, models.List{
		Name:     name,
		Board:    boardID,
		Position: maxPos + positionGap,
	})
	if err != nil {
		h.Log.Error("list create failed", zap.Error(err), zap.String("board", boardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	_ = h.Boards.Touch(ctx, boardID)
	envelope.Created(w, l, "list created")
}

// ListForBoard handles GET /boards/{boardID}/lists: the board's lists
// in position order with their cards joined.
func (h *Handler) ListForBoard(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	boardID, ok := objectIDParam(r, "boardID")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid board id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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
	if !cardpolicy.CanView(principal, b) {
		envelope.Fail(w, http.StatusForbidden, "you are not a member of this board")
		return
	}

	lists, err := h.Lists.ListForBoard(ctx, boardID)
	if err != nil {
		h.Log.Error("list fetch failed", zap.Error(err), zap.String("board", boardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, lists, "lists fetched")
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename handles PATCH /lists/{id}/name.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	listID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid list id")
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "list name cannot be blank")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, _, ok := h.authorize(ctx, w, listID, principal); !ok {
		return
	}

	if err := h.Lists.Rename(ctx, listID, name); err != nil {
		h.Log.Error("list rename failed", zap.Error(err), zap.String("list", listID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]string{"name": name}, "list renamed")
}

// Reposition handles PATCH /lists/{id}/position?pos=. Only the ordering
// key changes.
func (h *Handler) Reposition(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	listID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid list id")
		return
	}
	pos, ok := paging.ParsePos(r)
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "pos must be a non-negative number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, _, ok := h.authorize(ctx, w, listID, principal); !ok {
		return
	}

	if err := h.Lists.SetPosition(ctx, listID, pos); err != nil {
		h.Log.Error("list reposition failed", zap.Error(err), zap.String("list", listID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]float64{"position": pos}, "list repositioned")
}

// Delete handles DELETE /lists/{id}: the list and all of its cards with
// their descendants.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	listID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid list id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, _, ok := h.authorize(ctx, w, listID, principal); !ok {
		return
	}

	if err := h.Cascade.DeleteList(ctx, listID); err != nil {
		h.Log.Error("list cascade delete failed", zap.Error(err), zap.String("list", listID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, nil, "list deleted")
}

// authorize fetches the list and its board and enforces membership. On
// failure it writes the response and returns ok=false.
func (h *Handler) authorize(ctx context.Context, w http.ResponseWriter, listID, principal primitive.ObjectID) (models.List, models.Board, bool) {
	l, err := h.Lists.GetByID(ctx, listID)
	if err != nil {
		if err == liststore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "list not found"))
		} else {
			h.Log.Error("list fetch failed", zap.Error(err), zap.String("list", listID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.List{}, models.Board{}, false
	}

	b, err := h.Boards.GetByID(ctx, l.Board)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "board not found"))
		} else {
			h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", l.Board.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.List{}, models.Board{}, false
	}

	if !cardpolicy.CanMutate(principal, b) {
		envelope.Error(w, apierr.New(apierr.Forbidden, "you are not a member of this board"))
		return models.List{}, models.Board{}, false
	}
	return l, b, true
}

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
