package progress

import (
	"context"
	"time"
)

// Repository is an interface for the acquisition progress store
type Repository interface {
	// LastDate returns the latest date data was found for a sensor. The boolean is false if there's no record yet.
	LastDate(ctx context.Context, sensor string) (time.Time, bool, error)
	// AppendDate records that data was found for a sensor on the given date. Duplicates are fine, only the maximum is
	// ever read.
	AppendDate(ctx context.Context, sensor string, date time.Time) error
	Ping(ctx context.Context) error
}

// Record is a row of the progress table
type Record struct {
	Sensor string    `db:"satellite"`
	Date   time.Time `db:"has_info_date"`
}
