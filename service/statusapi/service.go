package statusapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dewey/acquisition-worker/cache"
	"github.com/dewey/acquisition-worker/config"
	"github.com/dewey/acquisition-worker/geo"
	"github.com/dewey/acquisition-worker/progress"
	"github.com/dewey/acquisition-worker/service/worker"
	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrInvalidRequest is returned for search requests that would be dropped by the worker anyway
var ErrInvalidRequest = errors.New("invalid search request")

// Service is an interface for the status API, it exposes what the loops cached and accepts new search requests
type Service interface {
	Healthy(ctx context.Context) error
	Result(ctx context.Context, requestID string) ([]byte, bool, error)
	Acquisitions(ctx context.Context, sensor string, day time.Time) ([]byte, bool, error)
	Enqueue(ctx context.Context, r worker.SearchRequest) (string, error)
}

type service struct {
	l   log.Logger
	cfg config.Config
	cr  cache.Repository
	pr  progress.Repository
}

// NewService initializes a new status API service
func NewService(l log.Logger, cfg config.Config, cr cache.Repository, pr progress.Repository) *service {
	return &service{
		l:   l,
		cfg: cfg,
		cr:  cr,
		pr:  pr,
	}
}

// Healthy checks if both stores are reachable
func (s *service) Healthy(ctx context.Context) error {
	if err := s.cr.Ping(ctx); err != nil {
		return errors.Wrap(err, "cache")
	}
	if err := s.pr.Ping(ctx); err != nil {
		return errors.Wrap(err, "progress database")
	}
	return nil
}

// Result returns the cached result of a search request
func (s *service) Result(ctx context.Context, requestID string) ([]byte, bool, error) {
	return s.cr.Get(ctx, config.ResultKey(requestID))
}

// Acquisitions returns the cached acquisition plan of a day. The sensor only matters with qualified feature keys.
func (s *service) Acquisitions(ctx context.Context, sensor string, day time.Time) ([]byte, bool, error) {
	if s.cfg.QualifyFeatureKeys && sensor == "" {
		return nil, false, errors.Wrap(ErrInvalidRequest, "sensor is required")
	}
	return s.cr.Get(ctx, s.cfg.FeatureKey(sensor, day))
}

// Enqueue validates a search request and pushes it onto the request queue. A missing request id is generated.
func (s *service) Enqueue(ctx context.Context, r worker.SearchRequest) (string, error) {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if _, err := geo.ToFullRange(r.TimeRange); err != nil {
		return "", errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if r.MinCloud < 0 || r.MaxCloud > 100 || r.MinCloud > r.MaxCloud {
		return "", errors.Wrapf(ErrInvalidRequest, "cloud cover range %d-%d", r.MinCloud, r.MaxCloud)
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", errors.Wrap(err, "encoding search request")
	}
	if err := s.cr.PushBack(ctx, s.cfg.RequestQueue, b); err != nil {
		return "", err
	}
	return r.RequestID, nil
}
