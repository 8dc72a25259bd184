// internal/app/features/attachments/attachments.go
package attachmentsfeat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/policy/cardpolicy"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/attachments"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/boards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/cards"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type createAttachmentRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	// IsWebsiteLink distinguishes a plain link from an uploaded file's
	// storage reference.
	IsWebsiteLink bool `json:"isWebsiteLink"`
}

// Create handles POST /cards/{cardID}/attachments. Storage itself is
// external: the url is either a website link or the caller-supplied
// reference of an already-uploaded file. Unnamed file references get a
// generated name.
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

	var req createAttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		envelope.Fail(w, http.StatusBadRequest, "attachment url is required")
		return
	}
	if u, err := url.Parse(rawURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		envelope.Fail(w, http.StatusBadRequest, "attachment url must be http or https")
		return
	}

	name := normalize.Name(req.Name)
	if name == "" {
		if req.IsWebsiteLink {
			name = rawURL
		} else {
			name = "file-" + uuid.NewString()
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.authorizeCard(ctx, w, cardID, principal)
	if !ok {
		return
	}

	a, err := h.Attachments.Create(ctx, models.Attachment{
		URL:           rawURL,
		Name:          name,
		IsWebsiteLink: req.IsWebsiteLink,
		Card:          cardID,
		Board:         c.Board,
		AttachedBy:    principal,
	})
	if err != nil {
		h.Log.Error("attachment create failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.Cards.AdjustCounter(ctx, cardID, "attachment_count", 1); err != nil {
		h.Log.Warn("attachment tally bump failed", zap.Error(err), zap.String("card", cardID.Hex()))
	}

	envelope.Created(w, a, "attachment added")
}

// ListForCard handles GET /cards/{cardID}/attachments, newest first.
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

	attachments, err := h.Attachments.ListForCard(ctx, cardID)
	if err != nil {
		h.Log.Error("attachment list failed", zap.Error(err), zap.String("card", cardID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, attachments, "attachments fetched")
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename handles PATCH /attachments/{id}/name.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	attachmentID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := normalize.Name(req.Name)
	if name == "" {
		envelope.Fail(w, http.StatusBadRequest, "attachment name cannot be blank")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, ok := h.authorizeAttachment(ctx, w, attachmentID, principal); !ok {
		return
	}

	if err := h.Attachments.Rename(ctx, attachmentID, name); err != nil {
		h.Log.Error("attachment rename failed", zap.Error(err), zap.String("attachment", attachmentID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]string{"name": name}, "attachment renamed")
}

// Delete handles DELETE /attachments/{id} and keeps the card's tally in
// step.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	attachmentID, ok := objectIDParam(r, "id")
	if !ok {
		envelope.Fail(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.authorizeAttachment(ctx, w, attachmentID, principal)
	if !ok {
		return
	}

	n, err := h.Attachments.Delete(ctx, attachmentID)
	if err != nil {
		h.Log.Error("attachment delete failed", zap.Error(err), zap.String("attachment", attachmentID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if n > 0 {
		if err := h.Cards.AdjustCounter(ctx, a.Card, "attachment_count", -1); err != nil {
			h.Log.Warn("attachment tally decrement failed", zap.Error(err), zap.String("card", a.Card.Hex()))
		}
	}

	envelope.OK(w, nil, "attachment deleted")
}

// authorizeCard fetches the card and enforces membership on its board.
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

// authorizeAttachment fetches the attachment and enforces membership on
// its denormalized board.
func (h *Handler) authorizeAttachment(ctx context.Context, w http.ResponseWriter, attachmentID, principal primitive.ObjectID) (models.Attachment, bool) {
	a, err := h.Attachments.GetByID(ctx, attachmentID)
	if err != nil {
		if err == attachmentstore.ErrNotFound {
			envelope.Error(w, apierr.New(apierr.NotFound, "attachment not found"))
		} else {
			h.Log.Error("attachment fetch failed", zap.Error(err), zap.String("attachment", attachmentID.Hex()))
			envelope.Error(w, apierr.Wrap(apierr.Internal, "something went wrong", err))
		}
		return models.Attachment{}, false
	}
	if !h.boardMember(ctx, w, a.Board, principal) {
		return models.Attachment{}, false
	}
	return a, true
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
