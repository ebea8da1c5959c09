// internal/app/store/seed/samples.go
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mvarner/pulseboard/internal/domain/models"
)

// DefaultPassword is the password every seeded account accepts. Seed data is
// for development environments only.
const DefaultPassword = "password123"

type sampleUser struct {
	name  string
	email string
	role  string
}

var sampleUsers = []sampleUser{
	{"John Doe", "john@example.com", models.RoleAdmin},
	{"Jane Smith", "jane@example.com", models.RoleUser},
	{"Bob Johnson", "bob@example.com", models.RoleUser},
	{"Alice Williams", "alice@example.com", models.RoleUser},
	{"Charlie Brown", "charlie@example.com", models.RoleUser},
	{"Diana Prince", "diana@example.com", models.RoleAdmin},
	{"Eve Davis", "eve@example.com", models.RoleUser},
	{"Frank Miller", "frank@example.com", models.RoleUser},
}

// SampleUsers builds the development user set. Every account shares
// DefaultPassword; the last user is Inactive so the status filter has
// something to show.
func SampleUsers() ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	hashStr := string(hash)

	users := make([]models.User, len(sampleUsers))
	for i, su := range sampleUsers {
		status := models.StatusActive
		if i == len(sampleUsers)-1 {
			status = models.StatusInactive
		}
		users[i] = models.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: &hashStr,
			Role:         su.role,
			Status:       status,
		}
	}
	return users, nil
}

// SampleAnalytics builds one record per day for the trailing window, oldest
// first, each dated at UTC midnight.
func SampleAnalytics(days int) []models.AnalyticsRecord {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	records := make([]models.AnalyticsRecord, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		records = append(records, models.AnalyticsRecord{
			Date:           date,
			ActiveUsers:    int64(rand.Intn(3000) + 2000),
			NewSignups:     int64(rand.Intn(500) + 100),
			Revenue:        int64(rand.Intn(50000) + 10000),
			ConversionRate: float64(rand.Intn(15) + 5),
			UserEngagement: float64(rand.Intn(40) + 45),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return records
}
