package seed

import (
	"testing"

	"go.uber.org/zap"

	analyticsstore "github.com/mvarner/pulseboard/internal/app/store/analytics"
	userstore "github.com/mvarner/pulseboard/internal/app/store/users"
	"github.com/mvarner/pulseboard/internal/testutil"
)

func TestRunOnlyWhenEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	seeder := NewSeeder(db, zap.NewNop())

	res, err := seeder.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Users != 8 || res.Analytics != AnalyticsDays {
		t.Errorf("result = %+v", res)
	}

	// A second Run against a populated database is a no-op.
	res, err = seeder.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res.Users != 0 || res.Analytics != 0 {
		t.Errorf("second Run result = %+v, want zero", res)
	}

	count, err := userstore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 8 {
		t.Errorf("users = %d, want 8", count)
	}
}

func TestReset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	seeder := NewSeeder(db, zap.NewNop())

	if _, err := seeder.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	res, err := seeder.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if res.Users != 8 || res.Analytics != AnalyticsDays {
		t.Errorf("result = %+v", res)
	}

	// Reset replaces rather than appends.
	users, err := userstore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("user Count: %v", err)
	}
	analytics, err := analyticsstore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("analytics Count: %v", err)
	}
	if users != 8 || analytics != int64(AnalyticsDays) {
		t.Errorf("counts after Reset = %d users, %d analytics", users, analytics)
	}
}
