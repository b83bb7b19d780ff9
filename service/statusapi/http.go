package statusapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dewey/acquisition-worker/service/worker"
	"github.com/go-chi/chi/v5"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// NewHandler initializes a new status API handler
func NewHandler(s *service) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("acquisition-worker"))
	})
	r.Get("/healthz", healthHandler(s))
	r.Get("/results/{requestID}", resultHandler(s))
	r.Get("/acquisitions/{date}", acquisitionsHandler(s))
	r.Post("/requests", enqueueHandler(s))

	return r
}

func healthHandler(s *service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Healthy(r.Context()); err != nil {
			level.Error(s.l).Log("msg", "health check failed", "err", err)
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}

func resultHandler(s *service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok, err := s.Result(r.Context(), chi.URLParam(r, "requestID"))
		writeCached(s, w, v, ok, err)
	}
}

func acquisitionsHandler(s *service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "date has to be in the YYYY-MM-DD format", http.StatusBadRequest)
			return
		}
		v, ok, err := s.Acquisitions(r.Context(), r.URL.Query().Get("sensor"), day)
		if errors.Cause(err) == ErrInvalidRequest {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeCached(s, w, v, ok, err)
	}
}

func writeCached(s *service, w http.ResponseWriter, v []byte, ok bool, err error) {
	if err != nil {
		level.Error(s.l).Log("err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(v)
}

func enqueueHandler(s *service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sr worker.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&sr); err != nil {
			if errors.Cause(err) == worker.ErrIncompleteRequest {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		id, err := s.Enqueue(r.Context(), sr)
		if err != nil {
			if errors.Cause(err) == ErrInvalidRequest {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			level.Error(s.l).Log("err", errors.Wrap(err, "enqueueing search request"))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		level.Info(s.l).Log("msg", "search request queued", "request_id", id)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"request_id": id})
	}
}
