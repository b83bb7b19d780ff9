package acquisition

import (
	"context"
	"encoding/json"
	"time"
)

// Repository is an interface for an acquisition plan source
type Repository interface {
	// Plan returns the planned acquisitions of a sensor on a given day. An empty list means nothing is planned.
	Plan(ctx context.Context, sensor string, day time.Time) ([]json.RawMessage, error)
}
