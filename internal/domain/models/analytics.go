// internal/domain/models/analytics.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyticsRecord is one day of site metrics. Date is normalized to UTC
// midnight; the collection is intended to hold one record per calendar day.
// Records are written by seeding only and are read-only from the API.
type AnalyticsRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date           time.Time          `bson:"date" json:"date"`
	ActiveUsers    int64              `bson:"active_users" json:"activeUsers"`
	NewSignups     int64              `bson:"new_signups" json:"newSignups"`
	Revenue        int64              `bson:"revenue" json:"revenue"`
	ConversionRate float64            `bson:"conversion_rate" json:"conversionRate"`
	UserEngagement float64            `bson:"user_engagement" json:"userEngagement"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Summary holds the aggregate statistics for a set of analytics records.
// Averages are rounded to two decimal places. An empty set yields the zero
// value, never NaN.
type Summary struct {
	TotalActiveUsers int64   `json:"totalActiveUsers"`
	TotalNewSignups  int64   `json:"totalNewSignups"`
	TotalRevenue     int64   `json:"totalRevenue"`
	AvgConversion    float64 `json:"avgConversion"`
	AvgEngagement    float64 `json:"avgEngagement"`
}
