// internal/testutil/fixtures.go
package testutil

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mvarner/pulseboard/internal/domain/models"
)

// UserFixture builds a stored user record with sensible defaults.
func UserFixture(name, email, role string) models.User {
	now := time.Now().UTC()
	return models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PasswordUserFixture builds a user that can authenticate with password.
func PasswordUserFixture(name, email, role, password string) models.User {
	u := UserFixture(name, email, role)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	hashStr := string(hash)
	u.PasswordHash = &hashStr
	return u
}

// GoogleUserFixture builds a user provisioned through Google SSO.
func GoogleUserFixture(name, email, googleID string) models.User {
	u := UserFixture(name, email, models.RoleUser)
	u.GoogleID = &googleID
	u.ProfilePicture = "https://example.com/pic.jpg"
	return u
}

// AnalyticsFixture builds one daily record at UTC midnight for the given
// date with fixed metric values derived from the day of month, so tests
// get deterministic data.
func AnalyticsFixture(date time.Time) models.AnalyticsRecord {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	return models.AnalyticsRecord{
		ID:             primitive.NewObjectID(),
		Date:           d,
		ActiveUsers:    int64(2000 + d.Day()),
		NewSignups:     int64(100 + d.Day()),
		Revenue:        int64(10000 + d.Day()*100),
		ConversionRate: float64(5 + d.Day()%15),
		UserEngagement: float64(45 + d.Day()%40),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
