// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS). AppConfig is everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Token signing configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Emails provisioned as admins on first Google sign-in
	AdminEmails []string

	// Google OAuth configuration for the server-side redirect flow.
	// Blank client ID disables the flow; the SPA token POST still works.
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL of the frontend, used for OAuth callbacks and the
	// post-login redirect (e.g., "http://localhost:3000")
	BaseURL string

	// Seed the database with sample data on startup when empty
	SeedOnStart bool

	// Login rate limiting
	LoginRateLimit  int
	LoginRateWindow time.Duration
}
