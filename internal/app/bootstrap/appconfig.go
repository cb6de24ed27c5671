// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, timeouts); AppConfig is everything specific to ShuleHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer token configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Email (SendGrid) configuration
	SendGridKey  string
	MailFrom     string
	MailFromName string

	// Identity used in outbound email and certificates
	SiteName string
	// Base URL for links in email (login page, portal)
	BaseURL string

	// Profile picture storage
	StorageLocalPath string
	StorageLocalURL  string

	// M-Pesa Daraja gateway
	MpesaEnv            string
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaShortCode      string
	MpesaPasskey        string
	MpesaCallbackURL    string
	// Unguessable path segment the Daraja callback is mounted under.
	MpesaCallbackPath string

	// Audit logging levels per category: "all", "db", "log" or "off".
	AuditLogAuth      string
	AuditLogLifecycle string
	AuditLogFinance   string
}
