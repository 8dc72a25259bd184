// internal/app/features/collections/collections.go
package collectionsfeat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/boardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/collectionpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/collections"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/paging"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type nameRequest struct {
	Name string `json:"name"`
}

// collectionDetail is the expanded read shape: the board reference list
// resolved to board documents.
type collectionDetail struct {
	models.Collection
	BoardItems []models.Board `json:"boardItems"`
}

// Create handles POST /collections.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "collection name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	col, err := h.Collections.Create(ctx, models.Collection{
		Name:  name,
		Owner: principal,
	})
	if err != nil {
		h.Log.Error("collection create failed", zap.Error(err), zap.String("owner", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.Users.AddCollection(ctx, principal, col.ID); err != nil {
		h.Log.Warn("collection backref failed", zap.Error(err), zap.String("collection", col.ID.Hex()))
	}

	envelope.Created(w, col, "collection created")
}

// ListMine handles GET /collections, the caller's collections paginated
// by recency.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cols, err := h.Collections.ListForOwner(ctx, principal, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("collection list failed", zap.Error(err), zap.String("owner", principal.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, cols, "collections fetched")
}

// Get handles GET /collections/{id}, expanding board references.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	collectionID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	col, ok := h.authorize(ctx, w, collectionID, principal)
	if !ok {
		return
	}

	boards := []models.Board{}
	if len(col.Boards) > 0 {
		var err error
		boards, err = h.Boards.ListByIDs(ctx, col.Boards, 0, int64(len(col.Boards)))
		if err != nil {
			h.Log.Error("collection board expansion failed", zap.Error(err), zap.String("collection", collectionID.Hex()))
			envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
			return
		}
	}

	envelope.OK(w, collectionDetail{Collection: col, BoardItems: boards}, "collection fetched")
}

// Rename handles PATCH /collections/{id}/name.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	collectionID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "collection name cannot be blank")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.authorize(ctx, w, collectionID, principal); !ok {
		return
	}

	if err := h.Collections.Rename(ctx, collectionID, name); err != nil {
		h.Log.Error("collection rename failed", zap.Error(err), zap.String("collection", collectionID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]string{"name": name}, "collection renamed")
}

// AddBoard handles POST /collections/{id}/boards/{boardID}. The caller
// must own the collection and be a member of the board.
func (h *Handler) AddBoard(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	collectionID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	boardID, ok := objectIDParam(r, "boardID")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid board id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	col, ok := h.authorize(ctx, w, collectionID, principal)
	if !ok {
		return
	}

	b, err := h.Boards.GetByID(ctx, boardID)
	if err != nil {
		if err == boardstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "board not found")
		} else {
			h.Log.Error("board fetch failed", zap.Error(err), zap.String("board", boardID.Hex()))
			envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}
	if !boardpolicy.CanView(principal, b) {
		envelope.Fail(w, http.StatusForbidden, "you are not a member of this board")
		return
	}

	if col.HasBoard(boardID) {
		envelope.Accepted(w, nil, "board already in collection")
		return
	}

	if err := h.Collections.AddBoard(ctx, collectionID, boardID); err != nil {
		h.Log.Error("collection add board failed", zap.Error(err), zap.String("collection", collectionID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, nil, "board added to collection")
}

// RemoveBoard handles DELETE /collections/{id}/boards/{boardID}.
// Removing a board that is not in the collection is a no-op.
func (h *Handler) RemoveBoard(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	collectionID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	boardID, ok := objectIDParam(r, "boardID")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid board id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.authorize(ctx, w, collectionID, principal); !ok {
		return
	}

	if err := h.Collections.PullBoard(ctx, collectionID, boardID); err != nil {
		h.Log.Error("collection pull board failed", zap.Error(err), zap.String("collection", collectionID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, nil, "board removed from collection")
}

// Delete handles DELETE /collections/{id}. Boards inside the collection
// are untouched.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	collectionID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid collection id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	col, ok := h.authorize(ctx, w, collectionID, principal)
	if !ok {
		return
	}
	if !collectionpolicy.CanDelete(principal, col) {
		envelope.Fail(w, http.StatusForbidden, "only the collection's owner can delete it")
		return
	}

	if err := h.Cascade.DeleteCollection(ctx, collectionID, col.Owner); err != nil {
		h.Log.Error("collection delete failed", zap.Error(err), zap.String("collection", collectionID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, nil, "collection deleted")
}

// authorize fetches the collection and enforces ownership.
func (h *Handler) authorize(ctx context.Context, w http.ResponseWriter, collectionID, principal primitive.ObjectID) (models.Collection, bool) {
	col, err := h.Collections.GetByID(ctx, collectionID)
	if err != nil {
		if err == collectionstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "collection not found"))
		} else {
			h.Log.Error("collection fetch failed", zap.Error(err), zap.String("collection", collectionID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Collection{}, false
	}
	if !collectionpolicy.CanView(principal, col) {
		envelope.Error(w, apierr.New(apierr.Forbidden, "this collection belongs to someone else"))
		return models.Collection{}, false
	}
	return col, true
}

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
