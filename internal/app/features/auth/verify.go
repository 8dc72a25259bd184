// internal/app/features/auth/verify.go
package authfeat

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/emailverify"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
)

type verifyRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// VerifyEmail handles POST /auth/verify. A correct code flips the
// account to verified and signs the user in.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" || len(req.Code) != 6 {
		envelope.Fail(w, http.StatusBadRequest, "token and 6-digit code are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, err := h.Verify.Confirm(ctx, req.Token, req.Code)
	if err != nil {
		switch err {
		case emailverify.ErrNotFound:
			envelope.Fail(w, http.StatusNotFound, "no pending verification for this token")
		case emailverify.ErrExpired:
			envelope.Fail(w, http.StatusBadRequest, "verification code expired; request a new one")
		case emailverify.ErrCodeMismatch:
			envelope.Fail(w, http.StatusBadRequest, "incorrect verification code")
		default:
			h.Log.Error("verification confirm failed", zap.Error(err))
			envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	if err := h.Users.SetVerified(ctx, userID); err != nil {
		h.Log.Error("set verified failed", zap.Error(err), zap.String("user", userID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.Log.Error("user fetch after verify failed", zap.Error(err), zap.String("user", userID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		h.Log.Error("session write failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.Log.Info("email verified", zap.String("user", u.ID.Hex()))
	envelope.OK(w, u.Public(), "email verified")
}
