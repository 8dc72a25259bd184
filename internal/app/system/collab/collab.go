// Package collab integrates the external realtime presence/co-editing
// provider. Rooms are keyed by the board's public URL slug. Room
// teardown on board deletion is best-effort: the cascade commits first
// and a failed teardown is logged, never surfaced.
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// RoomService is the interface the rest of the app depends on.
type RoomService interface {
	CreateRoom(ctx context.Context, roomID string) error
	DeleteRoom(ctx context.Context, roomID string) error
	SessionToken(userID, roomID string, permissions []string) (string, error)
}

// TokenTTL bounds how long a realtime session token stays valid.
const TokenTTL = time.Hour

// Client talks to the provider's REST API and signs session tokens with
// the shared secret.
type Client struct {
	baseURL string
	secret  []byte
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL, secret string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		secret:  []byte(secret),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

// CreateRoom registers the room with the provider.
func (c *Client) CreateRoom(ctx context.Context, roomID string) error {
	body, _ := json.Marshal(map[string]string{"id": roomID})
	return c.do(ctx, http.MethodPost, "/v1/rooms", bytes.NewReader(body))
}

// DeleteRoom tears the room down. Callers treat failure as best-effort.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/rooms/"+roomID, nil)
}

// SessionToken issues a signed HS256 token granting the user the given
// permissions in the room.
func (c *Client) SessionToken(userID, roomID string, permissions []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"room":  roomID,
		"perms": permissions,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body *bytes.Reader) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+string(c.secret))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("collab %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// 404 on delete means the room is already gone; idempotent.
	if method == http.MethodDelete && resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("collab %s %s: status %d", method, path, resp.StatusCode)
	}
	return nil
}

// ParseSessionToken validates a session token and returns its claims.
// Used by tests and by the events endpoint when a token is presented
// instead of a cookie session.
func ParseSessionToken(secret, token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
