// internal/app/store/seed/seeder.go

// Package seed populates a development database with sample users and a
// trailing month of analytics records.
package seed

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	analyticsstore "github.com/mvarner/pulseboard/internal/app/store/analytics"
	userstore "github.com/mvarner/pulseboard/internal/app/store/users"
)

// AnalyticsDays is the size of the seeded analytics window.
const AnalyticsDays = 30

// Result reports how many records a seeding pass wrote.
type Result struct {
	Users     int `json:"users"`
	Analytics int `json:"analytics"`
}

// Seeder writes sample data through the stores so normalization and
// validation apply to seeded records too.
type Seeder struct {
	db        *mongo.Database
	users     *userstore.Store
	analytics *analyticsstore.Store
	logger    *zap.Logger
}

func NewSeeder(db *mongo.Database, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:        db,
		users:     userstore.New(db),
		analytics: analyticsstore.New(db),
		logger:    logger,
	}
}

// Run seeds only when both collections are empty. Safe to call on every
// startup.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count users: %w", err)
	}
	analyticsCount, err := s.analytics.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count analytics: %w", err)
	}
	if userCount > 0 || analyticsCount > 0 {
		s.logger.Info("seed skipped, database not empty",
			zap.Int64("users", userCount),
			zap.Int64("analytics", analyticsCount))
		return Result{}, nil
	}
	return s.seed(ctx)
}

// Reset drops both collections and reseeds them.
func (s *Seeder) Reset(ctx context.Context) (Result, error) {
	for _, name := range []string{"users", "analytics"} {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return Result{}, fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return s.seed(ctx)
}

func (s *Seeder) seed(ctx context.Context) (Result, error) {
	users, err := SampleUsers()
	if err != nil {
		return Result{}, err
	}
	for _, u := range users {
		if _, err := s.users.Create(ctx, u); err != nil {
			return Result{}, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	records := SampleAnalytics(AnalyticsDays)
	if err := s.analytics.InsertMany(ctx, records); err != nil {
		return Result{}, fmt.Errorf("seed analytics: %w", err)
	}

	res := Result{Users: len(users), Analytics: len(records)}
	s.logger.Info("database seeded",
		zap.Int("users", res.Users),
		zap.Int("analytics", res.Analytics))
	return res, nil
}
