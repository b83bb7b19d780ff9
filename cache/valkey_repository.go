package cache

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/valkey-io/valkey-go"
)

type valkeyRepository struct {
	l      log.Logger
	client valkey.Client
}

// NewValkeyRepository connects to a Redis compatible server given as url, e.g. "redis://localhost:6379/0". The server
// has to answer a ping, otherwise the connection is closed again and an error returned.
func NewValkeyRepository(ctx context.Context, l log.Logger, url string) (*valkeyRepository, error) {
	opt, err := valkey.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	// Client side caching needs RESP3, plain Redis deployments don't always speak it
	opt.DisableCache = true

	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, errors.Wrap(err, "creating valkey client")
	}
	r := &valkeyRepository{
		l:      l,
		client: client,
	}
	if err := r.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	level.Info(l).Log("msg", "connected to cache", "address", opt.InitAddress)
	return r, nil
}

// Get returns a cache entry for a given key
func (s *valkeyRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "getting %s", key)
	}
	return b, true, nil
}

// Set sets a cache entry that expires after ttl
func (s *valkeyRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.Errorf("ttl for %s has to be positive", key)
	}
	cmd := s.client.B().Set().Key(key).Value(string(value)).Px(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return errors.Wrapf(err, "setting %s", key)
	}
	return nil
}

// PopFront pops the head of a list
func (s *valkeyRepository) PopFront(ctx context.Context, queue string) ([]byte, bool, error) {
	b, err := s.client.Do(ctx, s.client.B().Lpop().Key(queue).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "popping from %s", queue)
	}
	return b, true, nil
}

// PushBack appends to the tail of a list
func (s *valkeyRepository) PushBack(ctx context.Context, queue string, value []byte) error {
	if err := s.client.Do(ctx, s.client.B().Rpush().Key(queue).Element(string(value)).Build()).Error(); err != nil {
		return errors.Wrapf(err, "pushing to %s", queue)
	}
	return nil
}

// Ping checks if the server is reachable
func (s *valkeyRepository) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return errors.Wrap(err, "valkey ping failed")
	}
	return nil
}

// Close releases the client and all its connections
func (s *valkeyRepository) Close() error {
	s.client.Close()
	return nil
}
