package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind apierr.Kind
		want int
	}{
		{apierr.Unauthenticated, http.StatusUnauthorized},
		{apierr.Forbidden, http.StatusForbidden},
		{apierr.InvalidArgument, http.StatusBadRequest},
		{apierr.NotFound, http.StatusNotFound},
		{apierr.Conflict, http.StatusConflict},
		{apierr.Upstream, http.StatusBadGateway},
		{apierr.Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("kind %d status: got %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestKindOfUnwrapsThroughWrapping(t *testing.T) {
	base := apierr.New(apierr.NotFound, "card not found")
	wrapped := fmt.Errorf("during move: %w", base)

	if got := apierr.KindOf(wrapped); got != apierr.NotFound {
		t.Errorf("kind: got %d, want NotFound", got)
	}
	if got := apierr.Message(wrapped); got != "card not found" {
		t.Errorf("message: got %q", got)
	}
}

func TestUnclassifiedErrorsStayGeneric(t *testing.T) {
	err := errors.New("connection reset by peer")

	if got := apierr.KindOf(err); got != apierr.Internal {
		t.Errorf("kind: got %d, want Internal", got)
	}
	if got := apierr.Message(err); got != "something went wrong" {
		t.Errorf("message leaked internals: %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("write conflict")
	err := apierr.Wrap(apierr.Internal, "something went wrong", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if err.Error() != "something went wrong: write conflict" {
		t.Errorf("Error(): got %q", err.Error())
	}
}
