package acquisition

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus is returned if the acquisition plan API doesn't answer with 200
var ErrUnexpectedStatus = errors.New("unexpected status code")

// DatetimeLayout is how the requested day is sent, always at midnight UTC
const DatetimeLayout = "2006-01-02T00:00:00Z"

type planResponse struct {
	Features []json.RawMessage `json:"features"`
}

type repository struct {
	l       log.Logger
	c       *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
}

// NewRepository initializes a new acquisition plan client. A rps of 0 doesn't limit the request rate.
func NewRepository(l log.Logger, c *http.Client, baseURL string, apiKey string, rps float64) *repository {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &repository{
		l:       l,
		c:       c,
		limiter: limiter,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Plan fetches the acquisition plan of a sensor for a day
func (s *repository) Plan(ctx context.Context, sensor string, day time.Time) ([]json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting for rate limiter")
	}
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing acquisition plan url")
	}
	q := u.Query()
	q.Set("api_key", s.apiKey)
	q.Set("satellites", sensor)
	q.Set("datetime", day.Format(DatetimeLayout))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.c.Do(req)
	if err != nil {
		// The error carries the url, which contains the api key
		return nil, errors.Errorf("requesting acquisition plan failed: %s", redact(err, s.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Wrapf(ErrUnexpectedStatus, "got %d", resp.StatusCode)
	}
	var pr planResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, errors.Wrap(err, "decoding acquisition plan")
	}
	return pr.Features, nil
}
