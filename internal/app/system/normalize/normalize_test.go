package normalize_test

import (
	"testing"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/normalize"
)

func TestName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Roadmap  ", "Roadmap"},
		{"Q3   Planning\tBoard", "Q3 Planning Board"},
		{"   ", ""},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := normalize.Name(tt.in); got != tt.want {
			t.Errorf("Name(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUsernameAndEmail(t *testing.T) {
	if got := normalize.Username("  TanISH435 "); got != "tanish435" {
		t.Errorf("Username: got %q", got)
	}
	if got := normalize.Email(" User@Example.COM "); got != "user@example.com" {
		t.Errorf("Email: got %q", got)
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ada Lovelace", "AL"},
		{"ada", "A"},
		{"Jean Luc Picard", "JP"},
		{"", ""},
		{"  émile  zola ", "ÉZ"},
	}
	for _, tt := range tests {
		if got := normalize.Initials(tt.in); got != tt.want {
			t.Errorf("Initials(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
