package collab_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/collab"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	c := collab.NewClient("http://unused", "shared-secret", zap.NewNop())

	token, err := c.SessionToken("user-1", "abc12345", []string{"read", "write"})
	if err != nil {
		t.Fatalf("SessionToken: %v", err)
	}

	claims, err := collab.ParseSessionToken("shared-secret", token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}

	if claims["sub"] != "user-1" {
		t.Errorf("sub: got %v", claims["sub"])
	}
	if claims["room"] != "abc12345" {
		t.Errorf("room: got %v", claims["room"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("exp claim missing: %v", claims["exp"])
	}
	ttl := time.Until(time.Unix(int64(exp), 0))
	if ttl <= 0 || ttl > collab.TokenTTL {
		t.Errorf("exp out of range: %v", ttl)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	c := collab.NewClient("http://unused", "secret-a", zap.NewNop())

	token, err := c.SessionToken("user-1", "room", []string{"read"})
	if err != nil {
		t.Fatalf("SessionToken: %v", err)
	}

	if _, err := collab.ParseSessionToken("secret-b", token); err == nil {
		t.Error("token signed with another secret should be rejected")
	}
}

func TestCreateAndDeleteRoom(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := collab.NewClient(srv.URL, "shared-secret", zap.NewNop())
	ctx := context.Background()

	if err := c.CreateRoom(ctx, "abc12345"); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/v1/rooms" {
		t.Errorf("create request: %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer shared-secret" {
		t.Errorf("authorization: got %q", gotAuth)
	}

	if err := c.DeleteRoom(ctx, "abc12345"); err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/v1/rooms/abc12345" {
		t.Errorf("delete request: %s %s", gotMethod, gotPath)
	}
}

// Deleting a room the provider no longer knows about is treated as
// success; the cascade relies on this being idempotent.
func TestDeleteRoomMissingIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := collab.NewClient(srv.URL, "shared-secret", zap.NewNop())
	if err := c.DeleteRoom(context.Background(), "gone"); err != nil {
		t.Errorf("DeleteRoom on missing room: %v", err)
	}
}

func TestCreateRoomSurfacesProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := collab.NewClient(srv.URL, "shared-secret", zap.NewNop())
	if err := c.CreateRoom(context.Background(), "room"); err == nil {
		t.Error("provider 500 should surface as an error")
	}
}
