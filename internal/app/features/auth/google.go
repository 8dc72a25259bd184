// internal/app/features/auth/google.go
package authfeat

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/envelope"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/slug"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/timeouts"
	"github.com/tanish435/Project-Management-Application-sub001/internal/domain/models"
)

const oauthStateCookie = "oauth_state"

func (h *Handler) googleConfigured() bool {
	return h.GoogleClientID != "" && h.GoogleClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleClientSecret,
		RedirectURL:  h.BaseURL + "/api/v1/auth/google/callback",
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleLogin handles GET /auth/google: sets the CSRF state cookie and
// redirects to Google's consent screen.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.googleConfigured() {
		envelope.Fail(w, http.StatusNotFound, "google sign-in is not configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("oauth state generation failed", zap.Error(err))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /auth/google/callback: validates state,
// exchanges the code, and signs the matching account in, creating a
// verified account on first sign-in. Provider failures are 502.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.googleConfigured() {
		envelope.Fail(w, http.StatusNotFound, "google sign-in is not configured")
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("google oauth denied", zap.String("error", errParam))
		envelope.Fail(w, http.StatusUnauthorized, "google sign-in was cancelled")
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if state == "" || err != nil || cookie.Value != state {
		envelope.Fail(w, http.StatusBadRequest, "invalid oauth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		envelope.Fail(w, http.StatusBadRequest, "missing oauth code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("oauth code exchange failed", zap.Error(err))
		envelope.Fail(w, http.StatusBadGateway, "google sign-in failed")
		return
	}

	info, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("google userinfo fetch failed", zap.Error(err))
		envelope.Fail(w, http.StatusBadGateway, "google sign-in failed")
		return
	}
	if info.Email == "" {
		envelope.Fail(w, http.StatusBadGateway, "google did not return an email address")
		return
	}

	u, err := h.findOrCreateGoogleUser(ctx, info)
	if err != nil {
		h.Log.Error("google account resolution failed", zap.Error(err), zap.String("email", info.Email))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		h.Log.Error("session write failed", zap.Error(err), zap.String("user", u.ID.Hex()))
		envelope.Fail(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.Log.Info("user logged in via google", zap.String("user", u.ID.Hex()))
	http.Redirect(w, r, h.BaseURL+"/boards", http.StatusSeeOther)
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &info, nil
}

// findOrCreateGoogleUser matches on email. First-time Google users get
// an account with a derived username, a random unusable password hash,
// and isVerified already true (Google attests the address).
func (h *Handler) findOrCreateGoogleUser(ctx context.Context, info *googleUserInfo) (models.User, error) {
	email := normalize.Email(info.Email)

	u, err := h.Users.GetByEmail(ctx, email)
	if err == nil {
		if !u.IsVerified {
			if err := h.Users.SetVerified(ctx, u.ID); err != nil {
				return models.User{}, err
			}
			if err := h.Verify.DeleteForUser(ctx, u.ID); err != nil {
				return models.User{}, err
			}
			u.IsVerified = true
		}
		return u, nil
	}
	if err != userstore.ErrNotFound {
		return models.User{}, err
	}

	fullName := normalize.Name(info.Name)
	if fullName == "" {
		fullName = strings.SplitN(email, "@", 2)[0]
	}

	for attempt := 0; attempt < 3; attempt++ {
		username := deriveUsername(email, attempt)
		u, err = h.Users.Create(ctx, models.User{
			Username:     username,
			Email:        email,
			FullName:     fullName,
			Initials:     normalize.Initials(fullName),
			Avatar:       info.Picture,
			PasswordHash: unusablePassword(),
			IsVerified:   true,
		})
		if err == nil {
			return u, nil
		}
		if err != userstore.ErrDuplicateUsername {
			return models.User{}, err
		}
	}
	return models.User{}, fmt.Errorf("could not derive a free username for %s", email)
}

func deriveUsername(email string, attempt int) string {
	base := normalize.Username(strings.SplitN(email, "@", 2)[0])
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, base)
	if len(base) < minUsernameLen {
		base = "user"
	}
	if len(base) > maxUsernameLen-5 {
		base = base[:maxUsernameLen-5]
	}
	if attempt == 0 {
		return base
	}
	return base + slug.New(4)
}

// unusablePassword returns a bcrypt-shaped value that no password can
// ever match, so Google accounts cannot be entered via the password
// form.
func unusablePassword() string {
	return "!google-oauth-" + slug.New(16)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
