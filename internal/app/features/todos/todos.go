// internal/app/features/todos/todos.go
package todosfeat

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
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/checklists"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/todos"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/paging"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

const positionGap = 1024

type createTodoRequest struct {
	Checklist string `json:"checklist"`
	Content   string `json:"content"`
}

// Create handles POST /todos. The new todo appends at the end of its
// checklist.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	checklistID, err := primitive.ObjectIDFromHex(req.Checklist)
	if err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid checklist id")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		envelope.Fail(w, http.StatusBadRequest, "todo content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cl, err := h.Checklists.GetByID(ctx, checklistID)
	if err != nil {
		if err == checkliststore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "checklist not found")
			return
		}
		h.Log.Error("checklist fetch failed", zap.Error(err), zap.String("checklist", checklistID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if !h.boardMember(ctx, w, cl.Board, principal) {
		return
	}

	maxPos, err := h.Todos.MaxPosition(ctx, checklistID)
	if err != nil {
		h.Log.Error("max position lookup failed", zap.Error(err), zap.String("checklist", checklistID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	t, err := h.Todos.Create(ctx, models.Todo{
		Content:   content,
		Checklist: checklistID,
		Board:     cl.Board,
		Position:  maxPos + positionGap,
	})
	if err != nil {
		h.Log.Error("todo create failed", zap.Error(err), zap.String("checklist", checklistID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.Created(w, t, "todo created")
}

type updateTodoRequest struct {
	Content  *string `json:"content"`
	Complete *bool   `json:"complete"`
}

// Update handles PATCH /todos/{id} for content and completion.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	todoID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == nil && req.Complete == nil {
		envelope.Fail(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.authorize(ctx, w, todoID, principal); !ok {
		return
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			envelope.Fail(w, http.StatusBadRequest, "todo content cannot be blank")
			return
		}
		if err := h.Todos.SetContent(ctx, todoID, content); err != nil {
			h.Log.Error("todo content update failed", zap.Error(err), zap.String("todo", todoID.Hex()))
			envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
			return
		}
	}
	if req.Complete != nil {
		if err := h.Todos.SetComplete(ctx, todoID, *req.Complete); err != nil {
			h.Log.Error("todo completion update failed", zap.Error(err), zap.String("todo", todoID.Hex()))
			envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
			return
		}
	}

	t, err := h.Todos.GetByID(ctx, todoID)
	if err != nil {
		h.Log.Error("todo refetch failed", zap.Error(err), zap.String("todo", todoID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, t, "todo updated")
}

// Reposition handles PATCH /todos/{id}/position?pos=.
func (h *Handler) Reposition(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	todoID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid todo id")
		return
	}
	pos, ok := paging.ParsePos(r)
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "pos must be a non-negative number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.authorize(ctx, w, todoID, principal); !ok {
		return
	}

	if err := h.Todos.SetPosition(ctx, todoID, pos); err != nil {
		h.Log.Error("todo reposition failed", zap.Error(err), zap.String("todo", todoID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]float64{"position": pos}, "todo repositioned")
}

type assignRequest struct {
	UserID string `json:"userId"`
}

// Assign handles POST /todos/{id}/assign. The assignee must be a board
// member.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	todoID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	var req assignRequest
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

	t, ok := h.authorize(ctx, w, todoID, principal)
	if !ok {
		return
	}

	b, err := h.Boards.GetByID(ctx, t.Board)
	if err != nil {
		h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", t.Board.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if !b.HasMember(userID) {
		envelope.Fail(w, http.StatusBadRequest, "user is not a member of the board")
		return
	}

	if err := h.Todos.Assign(ctx, todoID, userID); err != nil {
		h.Log.Error("todo assign failed", zap.Error(err),
			zap.String("todo", todoID.Hex()), zap.String("user", userID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, nil, "todo assigned")
}

// Unassign handles DELETE /todos/{id}/assign/{userID} (idempotent).
func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	todoID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid todo id")
		return
	}
	userID, ok := objectIDParam(r, "userID")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.authorize(ctx, w, todoID, principal); !ok {
		return
	}

	if err := h.Todos.Unassign(ctx, todoID, userID); err != nil {
		h.Log.Error("todo unassign failed", zap.Error(err),
			zap.String("todo", todoID.Hex()), zap.String("user", userID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, nil, "todo unassigned")
}

// Delete handles DELETE /todos/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	todoID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.authorize(ctx, w, todoID, principal); !ok {
		return
	}

	if _, err := h.Todos.Delete(ctx, todoID); err != nil {
		h.Log.Error("todo delete failed", zap.Error(err), zap.String("todo", todoID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, nil, "todo deleted")
}

// authorize fetches the todo and enforces membership on its
// denormalized board.
func (h *Handler) authorize(ctx context.Context, w http.ResponseWriter, todoID, principal primitive.ObjectID) (models.Todo, bool) {
	t, err := h.Todos.GetByID(ctx, todoID)
	if err != nil {
		if err == todostore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "todo not found"))
		} else {
			h.Log.Error("todo fetch failed", zap.Error(err), zap.String("todo", todoID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Todo{}, false
	}
	if !h.boardMember(ctx, w, t.Board, principal) {
		return models.Todo{}, false
	}
	return t, true
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
