// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ShuleHub. Values come
// from config files, SHULEHUB_* environment variables or command-line
// flags, merged with precedence flags > env > files > defaults.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "shulehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Bearer token signing secret (must be strong in production)"},
	{Name: "jwt_ttl", Default: "24h", Desc: "Bearer token lifetime (e.g., 24h, 30m)"},

	{Name: "sendgrid_key", Default: "", Desc: "SendGrid API key; email is skipped when empty"},
	{Name: "mail_from", Default: "noreply@shulehub.ac.ke", Desc: "From email address"},
	{Name: "mail_from_name", Default: "ShuleHub", Desc: "From display name"},

	{Name: "site_name", Default: "ShuleHub", Desc: "Institution name used in email and certificates"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links in email"},

	{Name: "storage_local_path", Default: "./uploads/profiles", Desc: "Local storage path for uploaded images"},
	{Name: "storage_local_url", Default: "/files/profiles", Desc: "URL prefix for serving uploaded images"},

	{Name: "mpesa_env", Default: "sandbox", Desc: "Daraja environment: 'sandbox' or 'production'"},
	{Name: "mpesa_consumer_key", Default: "", Desc: "Daraja consumer key"},
	{Name: "mpesa_consumer_secret", Default: "", Desc: "Daraja consumer secret"},
	{Name: "mpesa_shortcode", Default: "", Desc: "Daraja business short code"},
	{Name: "mpesa_passkey", Default: "", Desc: "Daraja STK passkey"},
	{Name: "mpesa_callback_url", Default: "", Desc: "Public URL Daraja posts payment results to"},
	{Name: "mpesa_callback_path", Default: "mpesa-result", Desc: "Unguessable local path segment for the Daraja callback"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_lifecycle", Default: "all", Desc: "Lifecycle event logging: 'all', 'db', 'log', or 'off'"},
	{Name: "audit_log_finance", Default: "all", Desc: "Finance event logging: 'all', 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SHULEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTTTL:    appValues.Duration("jwt_ttl", 24*time.Hour),

		SendGridKey:  appValues.String("sendgrid_key"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		SiteName: appValues.String("site_name"),
		BaseURL:  appValues.String("base_url"),

		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		MpesaEnv:            appValues.String("mpesa_env"),
		MpesaConsumerKey:    appValues.String("mpesa_consumer_key"),
		MpesaConsumerSecret: appValues.String("mpesa_consumer_secret"),
		MpesaShortCode:      appValues.String("mpesa_shortcode"),
		MpesaPasskey:        appValues.String("mpesa_passkey"),
		MpesaCallbackURL:    appValues.String("mpesa_callback_url"),
		MpesaCallbackPath:   appValues.String("mpesa_callback_path"),

		AuditLogAuth:      appValues.String("audit_log_auth"),
		AuditLogLifecycle: appValues.String("audit_log_lifecycle"),
		AuditLogFinance:   appValues.String("audit_log_finance"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backend is touched.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if coreCfg.Env == "prod" && appCfg.JWTSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("jwt_secret must be set in production")
	}
	if appCfg.MpesaEnv != "sandbox" && appCfg.MpesaEnv != "production" {
		return fmt.Errorf("mpesa_env must be 'sandbox' or 'production', got %q", appCfg.MpesaEnv)
	}
	return nil
}
