// internal/app/features/auth/login.go
package authfeat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

type loginRequest struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login handles POST /auth/login. Rate-limited per client IP; failed
// lookups and failed password checks report the same message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.loginLimiter.Allow(clientIP(r)) {
		envelope.Fail(w, http.StatusBadRequest, "too many login attempts; try again later")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		envelope.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		envelope.Fail(w, http.StatusBadRequest, "identifier and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.lookup(ctx, req.Identifier)
	if err != nil {
		if err == userstore.ErrNotFound {
			envelope.Fail(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		envelope.Fail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !u.IsVerified {
		envelope.Fail(w, http.StatusForbidden, "email not verified; check your inbox for the code")
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		h.Log.Error("session write failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.Log.Info("user logged in", zap.String("user", u.ID.Hex()), zap.String("username", u.Username))
	envelope.OK(w, u.Public(), "logged in")
}

func (h *Handler) lookup(ctx context.Context, identifier string) (models.User, error) {
	if strings.Contains(identifier, "@") {
		return h.Users.GetByEmail(ctx, normalize.Email(identifier))
	}
	return h.Users.GetByUsername(ctx, identifier)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u models.User) error {
	return h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		FullName: u.FullName,
	})
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("session clear failed", zap.Error(err))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	envelope.OK(w, nil, "logged out")
}

// Current handles GET /auth/current, returning the signed-in user's
// full own-profile projection.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.Principal(r)
	if !ok {
		envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, principal)
	if err != nil {
		if err == userstore.ErrNotFound {
			envelope.Fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		h.Log.Error("current user lookup failed", zap.Error(err))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	envelope.OK(w, u, "current user")
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
