package geo

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	dayLayout     = "2006-01-02"
	midnightUTC   = "T00:00:00Z"
	rangeSplitter = "/"
)

// ErrMalformedRange is returned if a date range isn't in the "YYYY-MM-DD/YYYY-MM-DD" format
var ErrMalformedRange = errors.New("malformed date range")

// ToFullRange expands a range of two calendar days like "2023-01-01/2023-01-31" into the RFC3339 form the catalog
// expects, "2023-01-01T00:00:00Z/2023-01-31T00:00:00Z". Besides a missing "/" or an empty segment, segments that
// aren't calendar days are rejected too, the catalog would refuse the expanded range anyway.
func ToFullRange(dateRange string) (string, error) {
	parts := strings.Split(dateRange, rangeSplitter)
	if len(parts) != 2 {
		return "", errors.Wrapf(ErrMalformedRange, "expected exactly one %q in %q", rangeSplitter, dateRange)
	}
	for _, p := range parts {
		if p == "" {
			return "", errors.Wrapf(ErrMalformedRange, "empty segment in %q", dateRange)
		}
		if _, err := time.Parse(dayLayout, p); err != nil {
			return "", errors.Wrapf(ErrMalformedRange, "segment %q is not a calendar day", p)
		}
	}
	return parts[0] + midnightUTC + rangeSplitter + parts[1] + midnightUTC, nil
}
