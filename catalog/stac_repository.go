package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dewey/acquisition-worker/geo"
	"github.com/go-kit/log"
	"github.com/pkg/errors"
)

// ErrUnexpectedStatus is returned if the catalog doesn't answer with 200
var ErrUnexpectedStatus = errors.New("unexpected status code")

type cloudCover struct {
	Gte int `json:"gte"`
	Lte int `json:"lte"`
}

type searchBody struct {
	Intersects  geo.Polygon           `json:"intersects"`
	Datetime    string                `json:"datetime"`
	Query       map[string]cloudCover `json:"query"`
	Collections []string              `json:"collections"`
}

type searchResponse struct {
	Features []json.RawMessage `json:"features"`
}

type stacRepository struct {
	l          log.Logger
	c          *http.Client
	url        string
	collection string
}

// NewSTACRepository initializes a new client for a STAC item search endpoint. Every search is restricted to a single
// collection.
func NewSTACRepository(l log.Logger, c *http.Client, url string, collection string) *stacRepository {
	return &stacRepository{
		l:          l,
		c:          c,
		url:        url,
		collection: collection,
	}
}

// Search posts a query to the catalog
func (s *stacRepository) Search(ctx context.Context, q Query) (Result, error) {
	b, err := json.Marshal(searchBody{
		Intersects: q.Area,
		Datetime:   q.DateRange,
		Query: map[string]cloudCover{
			"eo:cloud_cover": {Gte: q.MinCloudCover, Lte: q.MaxCloudCover},
		},
		Collections: []string{s.collection},
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "encoding search")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(b))
	if err != nil {
		return Result{}, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := s.c.Do(req)
	if err != nil {
		return Result{}, errors.Wrap(err, "searching catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Result{}, errors.Wrapf(ErrUnexpectedStatus, "got %d", resp.StatusCode)
	}
	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Result{}, errors.Wrap(err, "decoding search response")
	}
	return Result{Features: sr.Features}, nil
}
