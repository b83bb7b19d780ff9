package worker

import (
	"context"
	"time"

	"github.com/dewey/acquisition-worker/cache"
	"github.com/dewey/acquisition-worker/catalog"
	"github.com/dewey/acquisition-worker/config"
	"github.com/dewey/acquisition-worker/geo"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Service is an interface for the search request worker
type Service interface {
	ProcessNext(ctx context.Context) (bool, error)
	Run(ctx context.Context) error
}

type service struct {
	l   log.Logger
	cfg config.Config
	sr  catalog.Repository
	cr  cache.Repository
}

// NewService initializes a new worker service
func NewService(l log.Logger, cfg config.Config, sr catalog.Repository, cr cache.Repository) *service {
	return &service{
		l:   l,
		cfg: cfg,
		sr:  sr,
		cr:  cr,
	}
}

// Run handles at most one request per poll interval until ctx is done. Failed requests are dropped, the producer
// notices by never seeing a result.
func (s *service) Run(ctx context.Context) error {
	for {
		if _, err := s.ProcessNext(ctx); err != nil {
			level.Error(s.l).Log("msg", "error processing queue", "err", err)
		}
		t := time.NewTimer(s.cfg.PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// ProcessNext pops a single request off the queue, searches the catalog and caches the result. It reports whether a
// request was popped.
func (s *service) ProcessNext(ctx context.Context) (bool, error) {
	b, ok, err := s.cr.PopFront(ctx, s.cfg.RequestQueue)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	r, err := DecodeRequest(b)
	if err != nil {
		return true, errors.Wrapf(err, "dropping queue entry %q", b)
	}
	if err := s.handle(ctx, r); err != nil {
		return true, errors.Wrapf(err, "request %s", r.RequestID)
	}
	return true, nil
}

func (s *service) handle(ctx context.Context, r SearchRequest) error {
	dateRange, err := geo.ToFullRange(r.TimeRange)
	if err != nil {
		return err
	}
	res, err := s.sr.Search(ctx, catalog.Query{
		Area:          geo.BuildSquare(r.Lon, r.Lat, config.SearchDelta),
		DateRange:     dateRange,
		MinCloudCover: int(r.MinCloud),
		MaxCloudCover: int(r.MaxCloud),
	})
	if err != nil {
		return errors.Wrapf(err, "searching around %f,%f", r.Lon, r.Lat)
	}
	payload, err := res.Payload()
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	if err := s.cr.Set(ctx, config.ResultKey(r.RequestID), payload, s.cfg.ResultTTL); err != nil {
		return err
	}
	level.Info(s.l).Log("msg", "request processed", "request_id", r.RequestID, "features", len(res.Features), "not_found", res.NotFound())
	return nil
}
