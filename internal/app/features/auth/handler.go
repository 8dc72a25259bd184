// internal/app/features/auth/handler.go
package authfeat

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/emailverify"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/store/users"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/auth"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/mailer"
	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/ratelimit"
)

// SiteName appears in outbound email subjects and bodies.
const SiteName = "TaskBoard"

// MailSender delivers outbound mail. *mailer.Mailer is the production
// implementation.
type MailSender interface {
	Send(e mailer.Email) error
}

// Handler owns registration, login, verification, and the Google OAuth
// flow.
type Handler struct {
	DB         *mongo.Database
	Users      *userstore.Store
	Verify     *emailverify.Store
	SessionMgr *auth.SessionManager
	Mail       MailSender
	Log        *zap.Logger

	// Google OAuth configuration; empty client id disables the flow.
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string

	loginLimiter  *ratelimit.Limiter
	resendLimiter *ratelimit.Limiter
}

// NewHandler constructs the auth Handler.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	mail MailSender,
	googleClientID, googleClientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:                 db,
		Users:              userstore.New(db),
		Verify:             emailverify.New(db),
		SessionMgr:         sessionMgr,
		Mail:               mail,
		Log:                logger,
		GoogleClientID:     googleClientID,
		GoogleClientSecret: googleClientSecret,
		BaseURL:            baseURL,
		loginLimiter:       ratelimit.New(10, time.Minute),
		resendLimiter:      ratelimit.New(1, time.Minute),
	}
}
