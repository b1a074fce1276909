package ports

import "context"

// SeedSummary reports what the sample data load created. Skipped is
// set when the database already holds more than a handful of users.
type SeedSummary struct {
	Skipped       bool
	Admins        int
	Teachers      int
	Students      int
	Payments      int
	Notifications int
}

type SeedService interface {
	Seed(ctx context.Context) (*SeedSummary, error)
}
