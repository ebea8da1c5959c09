package analyticsstore

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mvarner/pulseboard/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("analytics")}
}

// ListRange returns analytics records ascending by date. A nil bound is
// open-ended; both bounds are inclusive. An empty result is an empty slice,
// not an error.
func (s *Store) ListRange(ctx context.Context, start, end *time.Time) ([]models.AnalyticsRecord, error) {
	filter := bson.M{}
	dateFilter := bson.M{}
	if start != nil {
		dateFilter["$gte"] = *start
	}
	if end != nil {
		dateFilter["$lte"] = *end
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := []models.AnalyticsRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// InsertMany bulk-inserts records. Used by seeding only; the API surface is
// read-only.
func (s *Store) InsertMany(ctx context.Context, records []models.AnalyticsRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i, rec := range records {
		docs[i] = rec
	}
	_, err := s.c.InsertMany(ctx, docs)
	return err
}

// Count returns the number of analytics records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Summarize computes the aggregate statistics for a set of records. The
// empty set yields the zero Summary rather than an error or NaN.
func Summarize(records []models.AnalyticsRecord) models.Summary {
	var sum models.Summary
	if len(records) == 0 {
		return sum
	}

	var conversion, engagement float64
	for _, rec := range records {
		sum.TotalActiveUsers += rec.ActiveUsers
		sum.TotalNewSignups += rec.NewSignups
		sum.TotalRevenue += rec.Revenue
		conversion += rec.ConversionRate
		engagement += rec.UserEngagement
	}

	n := float64(len(records))
	sum.AvgConversion = round2(conversion / n)
	sum.AvgEngagement = round2(engagement / n)
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
