// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/mvarner/pulseboard/internal/app/system/token"
)

// appConfigKeys defines the configuration keys for PulseBoard, loaded via
// WAFFLE's config system:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: PULSEBOARD_MONGO_URI, PULSEBOARD_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "pulseboard", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Token signing
	{Name: "jwt_secret", Default: "", Desc: "Secret for signing bearer tokens (required)"},
	{Name: "token_ttl", Default: "168h", Desc: "Bearer token lifetime (e.g., 168h for 7 days)"},

	// Admin provisioning for Google sign-in
	{Name: "admin_emails", Default: "", Desc: "Comma-separated emails granted Admin on first Google sign-in"},

	// Google OAuth redirect flow (blank client ID disables it)
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Frontend base URL for OAuth callbacks and post-login redirects
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Frontend base URL"},

	// Development seeding
	{Name: "seed_on_start", Default: false, Desc: "Seed sample data on startup when the database is empty"},

	// Login rate limiting
	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts allowed per IP per window"},
	{Name: "login_rate_window", Default: "1m", Desc: "Login rate-limit window (e.g., 1m, 30s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, PULSEBOARD_* for app), and
// command-line flags, merged with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PULSEBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		TokenTTL:  appValues.Duration("token_ttl", token.DefaultTTL),

		AdminEmails: splitEmails(appValues.String("admin_emails")),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		BaseURL: strings.TrimRight(appValues.String("base_url"), "/"),

		SeedOnStart: appValues.Bool("seed_on_start"),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// splitEmails parses a comma-separated address list, dropping empties.
func splitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation before any
// backend connections are attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required (set PULSEBOARD_JWT_SECRET)")
	}
	if coreCfg.Env == "prod" && len(appCfg.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters in production")
	}

	// A client secret without a client ID (or vice versa) is a config typo,
	// not a disabled flow.
	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}

	if appCfg.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}

	return nil
}
