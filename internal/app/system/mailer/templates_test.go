package mailer_test

import (
	"strings"
	"testing"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/mailer"
)

func TestBuildVerificationEmail(t *testing.T) {
	e := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:  "TaskBoard",
		Code:      "482915",
		ExpiresIn: "15 minutes",
	})

	if e.Subject != "Your TaskBoard verification code" {
		t.Errorf("subject: got %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "482915") {
		t.Error("text body should contain the code")
	}
	if !strings.Contains(e.TextBody, "15 minutes") {
		t.Error("text body should state the expiry")
	}
	if !strings.Contains(e.HTMLBody, "482915") {
		t.Error("html body should contain the code")
	}
}

func TestBuildInvitationEmail(t *testing.T) {
	e := mailer.BuildInvitationEmail(mailer.InvitationEmailData{
		SiteName:    "TaskBoard",
		InviterName: "Ada Lovelace",
		BoardName:   "Roadmap",
		BoardLink:   "https://taskboard.example.com/b/abc12345",
	})

	if !strings.Contains(e.Subject, "Ada Lovelace") || !strings.Contains(e.Subject, "Roadmap") {
		t.Errorf("subject: got %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "https://taskboard.example.com/b/abc12345") {
		t.Error("text body should carry the board link")
	}
	if !strings.Contains(e.HTMLBody, "https://taskboard.example.com/b/abc12345") {
		t.Error("html body should carry the board link")
	}
}

// HTML template values are escaped; a board named with markup must not
// reach the html body verbatim.
func TestInvitationEscapesHTML(t *testing.T) {
	e := mailer.BuildInvitationEmail(mailer.InvitationEmailData{
		SiteName:    "TaskBoard",
		InviterName: "Mallory",
		BoardName:   "<script>alert(1)</script>",
		BoardLink:   "https://taskboard.example.com/b/abc12345",
	})

	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("board name was not escaped in html body")
	}
}
