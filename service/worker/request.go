package worker

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SearchRequest is what producers push onto the request queue
type SearchRequest struct {
	RequestID string  `json:"request_id"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	MinCloud  Percent `json:"min_cloud"`
	MaxCloud  Percent `json:"max_cloud"`
	TimeRange string  `json:"time_range"`
}

// ErrIncompleteRequest is returned if a search request lacks one of its search parameters
var ErrIncompleteRequest = errors.New("incomplete search request")

// searchRequestFields mirrors SearchRequest with pointers, so absent fields can be told apart from zero values
type searchRequestFields struct {
	RequestID string   `json:"request_id"`
	Lon       *float64 `json:"lon"`
	Lat       *float64 `json:"lat"`
	MinCloud  *Percent `json:"min_cloud"`
	MaxCloud  *Percent `json:"max_cloud"`
	TimeRange *string  `json:"time_range"`
}

// UnmarshalJSON rejects requests missing a search parameter, a zero coordinate or cloud bound is never implied
func (r *SearchRequest) UnmarshalJSON(b []byte) error {
	var f searchRequestFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	var missing []string
	if f.Lon == nil {
		missing = append(missing, "lon")
	}
	if f.Lat == nil {
		missing = append(missing, "lat")
	}
	if f.MinCloud == nil {
		missing = append(missing, "min_cloud")
	}
	if f.MaxCloud == nil {
		missing = append(missing, "max_cloud")
	}
	if f.TimeRange == nil {
		missing = append(missing, "time_range")
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrIncompleteRequest, "missing %s", strings.Join(missing, ", "))
	}
	*r = SearchRequest{
		RequestID: f.RequestID,
		Lon:       *f.Lon,
		Lat:       *f.Lat,
		MinCloud:  *f.MinCloud,
		MaxCloud:  *f.MaxCloud,
		TimeRange: *f.TimeRange,
	}
	return nil
}

// Percent is a cloud cover bound. Producers send it either as a number or as a numeric string.
type Percent int

// UnmarshalJSON accepts 50, 50.0 and "50"
func (p *Percent) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return errors.Wrapf(err, "invalid percentage %s", b)
	}
	*p = Percent(math.Trunc(f))
	return nil
}

// DecodeRequest parses a queue entry
func DecodeRequest(b []byte) (SearchRequest, error) {
	var r SearchRequest
	if err := json.Unmarshal(b, &r); err != nil {
		return SearchRequest{}, errors.Wrap(err, "decoding search request")
	}
	if r.RequestID == "" {
		return SearchRequest{}, errors.New("search request without request_id")
	}
	return r, nil
}
