package catalog

import (
	"context"
	"encoding/json"

	"github.com/dewey/acquisition-worker/geo"
)

// Repository is an interface for an imagery catalog
type Repository interface {
	Search(ctx context.Context, q Query) (Result, error)
}

// Query is a spatial and temporal catalog search. DateRange is in the "<start>/<end>" RFC3339 form.
type Query struct {
	Area          geo.Polygon
	DateRange     string
	MinCloudCover int
	MaxCloudCover int
}

// Result holds the features matching a query
type Result struct {
	Features []json.RawMessage
}

// NotFound reports whether nothing matched
func (r Result) NotFound() bool {
	return len(r.Features) == 0
}

// NotFoundMarker is cached in place of an empty result, so clients can tell it apart from a request still in flight
type NotFoundMarker struct {
	Message string `json:"message"`
}

// Payload returns the JSON representation a result gets cached as
func (r Result) Payload() ([]byte, error) {
	if r.NotFound() {
		return json.Marshal(NotFoundMarker{Message: "not found"})
	}
	return json.Marshal(r.Features)
}
