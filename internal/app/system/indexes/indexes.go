// internal/app/system/indexes/indexes.go

// Package indexes creates the MongoDB indexes the stores rely on. EnsureAll
// runs at startup and is idempotent.
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	oauthstate "github.com/mvarner/pulseboard/internal/app/store/oauthstate"
)

// EnsureAll creates every index the application depends on. Problems are
// aggregated so startup can fail fast with the full picture.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureAnalytics(ctx, db); err != nil {
		problems = append(problems, "analytics: "+err.Error())
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureUsers backs the email-uniqueness invariant (emails are stored
// lowercase, so a plain unique index is case-insensitive in effect) and the
// google_id uniqueness for SSO accounts. google_id is sparse because
// password-only accounts never set it.
func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_email"),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("idx_users_google_id"),
		},
	})
	return err
}

// ensureAnalytics supports the date-range scans behind the dashboard.
func ensureAnalytics(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("analytics").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("idx_analytics_date"),
		},
	})
	return err
}
