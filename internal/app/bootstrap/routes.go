// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	analyticsfeature "github.com/mvarner/pulseboard/internal/app/features/analytics"
	authfeature "github.com/mvarner/pulseboard/internal/app/features/auth"
	healthfeature "github.com/mvarner/pulseboard/internal/app/features/health"
	seedfeature "github.com/mvarner/pulseboard/internal/app/features/seed"
	usersfeature "github.com/mvarner/pulseboard/internal/app/features/users"
	analyticsstore "github.com/mvarner/pulseboard/internal/app/store/analytics"
	oauthstate "github.com/mvarner/pulseboard/internal/app/store/oauthstate"
	seedstore "github.com/mvarner/pulseboard/internal/app/store/seed"
	userstore "github.com/mvarner/pulseboard/internal/app/store/users"
	sysauth "github.com/mvarner/pulseboard/internal/app/system/auth"
	"github.com/mvarner/pulseboard/internal/app/system/metrics"
	"github.com/mvarner/pulseboard/internal/app/system/ratelimit"
	"github.com/mvarner/pulseboard/internal/app/system/requestlog"
	"github.com/mvarner/pulseboard/internal/app/system/token"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. The API surface lives under /api; the
// Prometheus endpoint and the health check sit outside it so they stay
// unauthenticated and uninstrumented.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens := token.NewService(appCfg.JWTSecret, appCfg.TokenTTL)
	collector := metrics.NewCollector()
	limiter := ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)

	users := userstore.New(deps.MongoDatabase)
	analytics := analyticsstore.New(deps.MongoDatabase)
	seeder := seedstore.NewSeeder(deps.MongoDatabase, logger)

	requireAuth := sysauth.RequireAuth(tokens)

	authHandler := authfeature.NewHandler(users, tokens, limiter, collector, logger)
	authHandler.AdminEmails = appCfg.AdminEmails
	authHandler.BaseURL = appCfg.BaseURL
	if appCfg.GoogleClientID != "" {
		authHandler.OAuth = &oauth2.Config{
			ClientID:     appCfg.GoogleClientID,
			ClientSecret: appCfg.GoogleClientSecret,
			RedirectURL:  appCfg.BaseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
		authHandler.States = oauthstate.New(deps.MongoDatabase)
	}

	usersHandler := usersfeature.NewHandler(users, logger)
	analyticsHandler := analyticsfeature.NewHandler(analytics, logger)
	seedHandler := seedfeature.NewHandler(seeder, logger)
	healthHandler := healthfeature.NewHandler(func(ctx context.Context) error {
		return deps.MongoClient.Ping(ctx, readpref.Primary())
	}, logger)

	r := chi.NewRouter()

	// Prometheus scrape endpoint
	r.Handle("/metrics", collector.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(requestlog.Middleware(logger))
		api.Use(collector.Middleware)

		// Health check endpoint for load balancers and orchestrators
		api.Mount("/health", healthfeature.Routes(healthHandler))

		api.Mount("/auth", authfeature.Routes(authHandler, requireAuth))

		api.With(requireAuth).Mount("/users", usersfeature.Routes(usersHandler))
		api.With(requireAuth).Mount("/analytics", analyticsfeature.Routes(analyticsHandler))

		api.Mount("/seed", seedfeature.Routes(seedHandler, func(next http.Handler) http.Handler {
			return requireAuth(sysauth.RequireAdmin(next))
		}))
	})

	logger.Info("handler built",
		zap.Bool("google_oauth", authHandler.GoogleEnabled()),
		zap.Int("admin_emails", len(appCfg.AdminEmails)))

	return r, nil
}
