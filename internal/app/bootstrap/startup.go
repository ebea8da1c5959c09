// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/mvarner/pulseboard/internal/app/store/seed"
	"github.com/mvarner/pulseboard/internal/app/system/timeouts"
)

// Startup runs one-time initialization after DB connections and schema
// setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if applied := timeouts.ConfigureFromEnv(); applied > 0 {
		logger.Info("operation timeouts overridden from environment", zap.Int("applied", applied))
	}

	if appCfg.SeedOnStart {
		seeder := seed.NewSeeder(deps.MongoDatabase, logger)
		if _, err := seeder.Run(ctx); err != nil {
			logger.Error("startup seeding failed", zap.Error(err))
			return err
		}
	}

	return nil
}
