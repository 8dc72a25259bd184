// internal/app/features/auth/register.go
package authfeat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/emailverify"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/mailer"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

const (
	minPasswordLen = 8
	minUsernameLen = 3
	maxUsernameLen = 30
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type registerResponse struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// Register handles POST /auth/register. The account starts unverified;
// a 6-digit code goes out by email and the returned token identifies
// the pending verification for the confirm call.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := normalize.Username(req.Username)
	email := normalize.Email(req.Email)
	fullName := normalize.Name(req.FullName)

	if msg := validateRegistration(username, email, fullName, req.Password); msg != "" {
		envelope.Fail(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("bcrypt hash failed", zap.Error(err))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, email); err == nil {
		envelope.Fail(w, http.StatusConflict, "an account with this email already exists")
		return
	} else if err != userstore.ErrNotFound {
		h.Log.Error("email lookup failed", zap.Error(err))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Initials:     normalize.Initials(fullName),
		PasswordHash: string(hash),
	})
	if err != nil {
		if err == userstore.ErrDuplicateUsername {
			envelope.Fail(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("create user failed", zap.Error(err), zap.String("username", username))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	token, code, err := h.Verify.Issue(ctx, u.ID, u.Email)
	if err != nil {
		h.Log.Error("issue verification failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	email2 := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:  SiteName,
		Code:      code,
		ExpiresIn: "15 minutes",
	})
	email2.To = u.Email
	if err := h.Mail.Send(email2); err != nil {
		h.Log.Error("verification email failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		envelope.Fail(w, http.StatusBadGateway, "account created but the verification email could not be sent; request a new code")
		return
	}

	envelope.OK(w, registerResponse{User: u.Public(), Token: token},
		"account created; check your email for the verification code")
}

func validateRegistration(username, email, fullName, password string) string {
	switch {
	case len(username) < minUsernameLen || len(username) > maxUsernameLen:
		return "username must be 3-30 characters"
	case strings.ContainsAny(username, " \t"):
		return "username cannot contain spaces"
	case fullName == "":
		return "full name is required"
	case len(password) < minPasswordLen:
		return "password must be at least 8 characters"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "invalid email address"
	}
	return ""
}

// CheckUsername handles GET /auth/check-username?username=... so the
// sign-up form can validate availability as the user types.
func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := normalize.Username(r.URL.Query().Get("username"))
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		envelope.Fail(w, http.StatusBadRequest, "username must be 3-30 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	exists, err := h.Users.UsernameExists(ctx, username)
	if err != nil {
		h.Log.Error("username check failed", zap.Error(err))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, map[string]bool{"available": !exists}, "username checked")
}

// ResendCode handles POST /auth/resend-code. One resend per minute per
// account, enforced both in-process and by the pending record's issue
// time.
func (h *Handler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" {
		envelope.Fail(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if err == userstore.ErrNotFound {
			envelope.Fail(w, http.StatusNotFound, "no account with this email")
			return
		}
		h.Log.Error("email lookup failed", zap.Error(err))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if u.IsVerified {
		// A pending code can outlive verification (e.g. the account was
		// verified through Google in the meantime); drop it.
		if err := h.Verify.DeleteForUser(ctx, u.ID); err != nil {
			h.Log.Warn("pending verification cleanup failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		}
		envelope.OK(w, nil, "account is already verified")
		return
	}

	if !h.resendLimiter.Allow(u.ID.Hex()) {
		envelope.Fail(w, http.StatusBadRequest, "a code was sent recently; wait before requesting another")
		return
	}

	token, code, err := h.Verify.Issue(ctx, u.ID, u.Email)
	if err != nil {
		if err == emailverify.ErrTooSoon {
			envelope.Fail(w, http.StatusBadRequest, "a code was sent recently; wait before requesting another")
			return
		}
		h.Log.Error("issue verification failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	msg := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:  SiteName,
		Code:      code,
		ExpiresIn: "15 minutes",
	})
	msg.To = u.Email
	if err := h.Mail.Send(msg); err != nil {
		h.Log.Error("verification email failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		envelope.Fail(w, http.StatusBadGateway, "verification email could not be sent")
		return
	}

	envelope.OK(w, map[string]string{"token": token}, "verification code sent")
}
