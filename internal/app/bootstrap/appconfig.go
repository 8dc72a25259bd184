// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for TaskBoard.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to this app. Fields
// are loaded in LoadConfig from config files, TASKBOARD_* environment
// variables, or command-line flags.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Email/SMTP configuration (Mailpit locally, SES or similar in prod)
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Base URL for links in outbound email and OAuth callbacks
	BaseURL string

	// Realtime collaboration provider; blank base URL disables it
	CollabBaseURL string
	CollabSecret  string

	// Google OAuth; blank client id disables the flow
	GoogleClientID     string
	GoogleClientSecret string
}
