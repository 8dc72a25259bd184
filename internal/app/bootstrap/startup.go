// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.CollabBaseURL == "" {
		logger.Info("realtime collaboration disabled (collab_base_url not set)")
	}
	if appCfg.GoogleClientID == "" {
		logger.Info("Google sign-in disabled (google_client_id not set)")
	}
	return nil
}
