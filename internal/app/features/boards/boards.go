// internal/app/features/boards/boards.go
package boardsfeat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/boardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/paging"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/slug"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type createBoardRequest struct {
	Name    string `json:"name"`
	BgColor string `json:"bgColor"`
}

// Create handles POST /boards. The creator becomes admin and a member;
// the collab room is registered best-effort.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "board name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var b models.Board
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		b, err = h.Boards.Create(ctx, models.Board{
			Name:    name,
			BgColor: req.BgColor,
			URL:     slug.New(slug.DefaultLength),
			Admin:   principal,
		})
		if err != boardstore.ErrDuplicateSlug {
			break
		}
	}
	if err != nil {
		h.Log.Error("board create failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.Users.AddBoard(ctx, principal, b.ID); err != nil {
		h.Log.Error("board membership backref failed", zap.Error(err),
			zap.String("board", b.ID.Hex()), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if h.Rooms != nil {
		if err := h.Rooms.CreateRoom(ctx, b.URL); err != nil {
			h.Log.Warn("collab room create failed", zap.String("board", b.URL), zap.Error(err))
		}
	}

	envelope.Created(w, b, "board created")
}

// boardListItem decorates a board with the caller's star state for the
// list views.
type boardListItem struct {
	models.Board
	IsStarred bool `json:"isStarred"`
}

// List handles GET /boards: the caller's member boards, most recently
// updated first, paginated.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, principal)
	if err != nil {
		h.Log.Error("user fetch failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	boards, err := h.Boards.ListForUser(ctx, principal, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("board list failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	items := make([]boardListItem, 0, len(boards))
	for _, b := range boards {
		items = append(items, boardListItem{Board: b, IsStarred: u.HasStarred(b.ID)})
	}
	envelope.OK(w, items, "boards fetched")
}

// Starred handles GET /boards/starred.
func (h *Handler) Starred(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, principal)
	if err != nil {
		h.Log.Error("user fetch failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	boards, err := h.Boards.ListByIDs(ctx, u.StarredBoards, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("starred board list failed", zap.Error(err), zap.String("user", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	items := make([]boardListItem, 0, len(boards))
	for _, b := range boards {
		items = append(items, boardListItem{Board: b, IsStarred: true})
	}
	envelope.OK(w, items, "starred boards fetched")
}

// GetBySlug handles GET /boards/{slug}: the full board projection with
// admin and members expanded.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	boardSlug := chi.URLParam(r, "slug")
	if boardSlug == "" {
		envelope.Fail(w, http.StatusBadRequest, "board slug is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	bm, err := h.Boards.GetWithMembers(ctx, bson.M{"url": boardSlug})
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "board not found")
			return
		}
		h.Log.Error("board fetch failed", zap.Error(err), zap.String("slug", boardSlug))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if !boardpolicy.CanView(principal, bm.Board) {
		envelope.Fail(w, http.StatusForbidden, "you are not a member of this board")
		return
	}

	u, err := h.Users.GetByID(ctx, principal)
	if err == nil {
		bm.IsStarred = u.HasStarred(bm.Board.ID)
	}

	envelope.OK(w, bm, "board fetched")
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename handles PATCH /boards/{id}/name.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
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

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "board name cannot be blank")
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

	if err := h.Boards.Rename(ctx, boardID, name); err != nil {
		h.Log.Error("board rename failed", zap.Error(err), zap.String("board", boardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]string{"name": name}, "board renamed")
}

// Delete handles DELETE /boards/{id}. Admin only; the cascade engine
// removes every descendant and back-reference.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
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
	if !boardpolicy.CanDelete(principal, b) {
		envelope.Fail(w, http.StatusForbidden, "only the board admin can delete it")
		return
	}

	if err := h.Cascade.DeleteBoard(ctx, boardID); err != nil {
		h.Log.Error("board cascade delete failed", zap.Error(err), zap.String("board", boardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.Log.Info("board deleted", zap.String("board", boardID.Hex()), zap.String("by", principal.Hex()))
	envelope.OK(w, nil, "board deleted")
}

// objectIDParam parses a chi URL parameter as a hex ObjectID. Malformed
// ids are rejected before any query runs.
func objectIDParam(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
