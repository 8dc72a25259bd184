package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
)

func TestRequireSignedIn_RejectsAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run without a session user")
	})

	req := httptest.NewRequest("GET", "/boards", nil)
	rec := httptest.NewRecorder()

	auth.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	var resp struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
		Success    bool   `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("statusCode: got %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if resp.Success {
		t.Error("success must be false on a 401")
	}
	if resp.Message != "unauthorized" {
		t.Errorf("message: got %q", resp.Message)
	}
}

func TestRequireSignedIn_PassesSessionUser(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/boards", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:       "64b0c1d2e3f4a5b6c7d8e9f0",
		Username: "ada",
		FullName: "Ada Lovelace",
	})
	rec := httptest.NewRecorder()

	auth.RequireSignedIn(next).ServeHTTP(rec, req)

	if !called {
		t.Fatal("next handler should run for a signed-in user")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}
