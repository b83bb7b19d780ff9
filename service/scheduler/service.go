package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dewey/acquisition-worker/acquisition"
	"github.com/dewey/acquisition-worker/cache"
	"github.com/dewey/acquisition-worker/config"
	"github.com/dewey/acquisition-worker/progress"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Service is an interface for the acquisition plan scheduler
type Service interface {
	Sweep(ctx context.Context)
	Run(ctx context.Context) error
}

type service struct {
	l   log.Logger
	cfg config.Config
	ar  acquisition.Repository
	pr  progress.Repository
	cr  cache.Repository
	now func() time.Time
}

// NewService initializes a new scheduler service
func NewService(l log.Logger, cfg config.Config, ar acquisition.Repository, pr progress.Repository, cr cache.Repository) *service {
	return &service{
		l:   l,
		cfg: cfg,
		ar:  ar,
		pr:  pr,
		cr:  cr,
		now: time.Now,
	}
}

// Run sweeps all sensors, sleeps for the sweep interval and starts over until ctx is done
func (s *service) Run(ctx context.Context) error {
	for {
		start := s.now()
		s.Sweep(ctx)
		level.Info(s.l).Log("msg", "sweep finished", "duration", s.now().Sub(start), "next_in", s.cfg.SweepInterval)

		t := time.NewTimer(s.cfg.SweepInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Sweep walks every tracked sensor, one after another, through its lookahead window
func (s *service) Sweep(ctx context.Context) {
	for _, sensor := range s.cfg.TrackedSensors {
		if ctx.Err() != nil {
			return
		}
		s.sweepSensor(ctx, sensor, s.startingPoint(ctx, sensor))
	}
}

// startingPoint returns the last day data was found for a sensor, or now if we don't know about any. Storage errors
// are treated like a sensor without progress.
func (s *service) startingPoint(ctx context.Context, sensor string) time.Time {
	last, ok, err := s.pr.LastDate(ctx, sensor)
	if err != nil {
		level.Error(s.l).Log("msg", "error retrieving the last date, starting from now", "sensor", sensor, "err", err)
		return s.now().UTC()
	}
	if !ok {
		level.Debug(s.l).Log("msg", "no progress recorded yet, starting from now", "sensor", sensor)
		return s.now().UTC()
	}
	return last
}

// sweepSensor advances the cursor a day at a time. Only days with planned acquisitions are recorded, so a stretch of
// empty days is probed again on every sweep.
func (s *service) sweepSensor(ctx context.Context, sensor string, cursor time.Time) {
	for i := 0; i < s.cfg.SweepWindowDays; i++ {
		if ctx.Err() != nil {
			return
		}
		cursor = cursor.AddDate(0, 0, 1)
		day := cursor.Format("2006-01-02")

		features, err := s.ar.Plan(ctx, sensor, cursor)
		if err != nil {
			level.Error(s.l).Log("msg", "error requesting acquisition plan", "sensor", sensor, "date", day, "err", err)
			continue
		}
		if len(features) == 0 {
			level.Info(s.l).Log("msg", "no data for sensor", "sensor", sensor, "date", day)
			continue
		}
		if err := s.save(ctx, sensor, cursor, features); err != nil {
			level.Error(s.l).Log("msg", "error saving acquisition plan", "sensor", sensor, "date", day, "err", err)
			continue
		}
		level.Info(s.l).Log("msg", "acquisition plan saved", "sensor", sensor, "date", day, "features", len(features))
	}
}

// save records the progress and caches the features. A failed progress write doesn't keep the features from being
// cached.
func (s *service) save(ctx context.Context, sensor string, cursor time.Time, features []json.RawMessage) error {
	if err := s.pr.AppendDate(ctx, sensor, cursor); err != nil {
		level.Error(s.l).Log("msg", "error saving progress", "sensor", sensor, "date", cursor.Format(time.DateTime), "err", err)
	}
	b, err := json.Marshal(features)
	if err != nil {
		return errors.Wrap(err, "encoding features")
	}
	return s.cr.Set(ctx, s.cfg.FeatureKey(sensor, cursor), b, s.cfg.FeatureTTL)
}
