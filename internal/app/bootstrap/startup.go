// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after DB connections and schema
// setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SendGridKey == "" {
		logger.Warn("sendgrid_key not set; outbound email will be skipped")
	}
	if appCfg.MpesaConsumerKey == "" {
		logger.Warn("mpesa credentials not set; STK push will fail until configured")
	}
	return nil
}
