package config

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultAcquisitionURL is the acquisition plan endpoint of spectator.earth
	DefaultAcquisitionURL = "https://api.spectator.earth/acquisition-plan/"
	// DefaultCatalogURL is the STAC search endpoint of the USGS landsatlook server
	DefaultCatalogURL = "https://landsatlook.usgs.gov/stac-server/search"
	// DefaultCatalogCollection is the collection every catalog search is restricted to
	DefaultCatalogCollection = "landsat-c2l2-sr"
	// DefaultRequestQueue is the list external producers push search requests to
	DefaultRequestQueue = "request_queue"
	// DefaultProgressTable is the table the web application keeps acquisition dates in
	DefaultProgressTable = "api_acqusitiondatesinfo"
	// SearchDelta is the half-width in degrees of the square searched around a requested point
	SearchDelta = 0.004
)

var reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config is shared by the acquisition scheduler and the request queue worker
type Config struct {
	APIKey            string
	TrackedSensors    []string
	AcquisitionURL    string
	CatalogURL        string
	CatalogCollection string
	RequestQueue      string
	ProgressTable     string

	SweepWindowDays int
	SweepInterval   time.Duration
	PollInterval    time.Duration
	ResultTTL       time.Duration
	FeatureTTL      time.Duration

	// HTTPTimeout bounds every single upstream call
	HTTPTimeout time.Duration
	// AcquisitionRPS limits calls to the acquisition plan API, 0 disables the limit
	AcquisitionRPS float64
	// QualifyFeatureKeys prefixes cached acquisition features with the sensor. Without it two sensors with data on the
	// same day overwrite each other's entry.
	QualifyFeatureKeys bool
}

// Default returns the configuration the service has always been running with
func Default() Config {
	return Config{
		TrackedSensors:    []string{"Landsat-8", "Landsat-9"},
		AcquisitionURL:    DefaultAcquisitionURL,
		CatalogURL:        DefaultCatalogURL,
		CatalogCollection: DefaultCatalogCollection,
		RequestQueue:      DefaultRequestQueue,
		ProgressTable:     DefaultProgressTable,
		SweepWindowDays:   100,
		SweepInterval:     3 * time.Hour,
		PollInterval:      time.Second,
		ResultTTL:         120 * time.Second,
		FeatureTTL:        3 * 7 * 24 * time.Hour,
		HTTPTimeout:       30 * time.Second,
	}
}

// Validate checks if the configuration can be used to start both loops
func (c Config) Validate() error {
	if len(c.TrackedSensors) == 0 {
		return errors.New("no tracked sensors configured")
	}
	for _, s := range c.TrackedSensors {
		if s == "" {
			return errors.New("empty sensor identifier")
		}
	}
	if c.AcquisitionURL == "" || c.CatalogURL == "" {
		return errors.New("acquisition and catalog url are required")
	}
	if c.RequestQueue == "" {
		return errors.New("request queue name is required")
	}
	if !reIdentifier.MatchString(c.ProgressTable) {
		return errors.Errorf("invalid progress table name %q", c.ProgressTable)
	}
	if c.SweepWindowDays <= 0 {
		return errors.Errorf("sweep window has to be positive, got %d", c.SweepWindowDays)
	}
	if c.SweepInterval <= 0 || c.PollInterval <= 0 {
		return errors.New("sweep and poll interval have to be positive")
	}
	if c.ResultTTL <= 0 || c.FeatureTTL <= 0 {
		return errors.New("result and feature ttl have to be positive")
	}
	if c.AcquisitionRPS < 0 {
		return errors.New("acquisition rps can't be negative")
	}
	return nil
}

// FeatureKey returns the cache key acquisition features of a sensor for a given day are stored under
func (c Config) FeatureKey(sensor string, day time.Time) string {
	d := day.Format("2006-01-02")
	if c.QualifyFeatureKeys {
		return sensor + ":" + d
	}
	return d
}

// ResultKey returns the cache key the result of a search request is stored under
func ResultKey(requestID string) string {
	return "result:" + requestID
}
