// Package surface is the thin HTTP adapter around the core engine: it
// translates external query parameters into an internal query.Query, calls
// the planner and cache, and formats results as JSON. Router wiring follows
// a single owning struct built once at startup, similar in shape to
// app/app.go's App, here rebuilt around chi instead of Wails bindings.
package surface

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/scrapbird/holidayfinder/internal/apperr"
	"github.com/scrapbird/holidayfinder/internal/cache"
	"github.com/scrapbird/holidayfinder/internal/obs"
	"github.com/scrapbird/holidayfinder/internal/query"
	"github.com/scrapbird/holidayfinder/internal/snapshot"
)

// Server owns everything the HTTP surface needs: the published Snapshot
// (via its Manager), the QueryPlanner, and the ResultCache. None of this is
// itself part of the core — HTTP framing is deliberately kept out of it —
// it only calls into the core and shapes the response.
type Server struct {
	snapshots *snapshot.Manager
	planner *query.Planner
	cache *cache.ResultCache
	logger obs.Logger
}

// NewServer wires a Server. cache may be nil, which disables caching.
func NewServer(snapshots *snapshot.Manager, planner *query.Planner, rc *cache.ResultCache, logger obs.Logger) *Server {
	if logger == nil {
		logger = obs.Nop
	}
	return &Server{snapshots: snapshots, planner: planner, cache: rc, logger: logger}
}

// Router builds the chi mux: request-id middleware, a /healthz readiness
// probe, and the two search endpoints.
func (srv *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	r.Get("/healthz", srv.handleHealthz)
	r.Get("/api/hotels/best", srv.handleBestPerHotel)
	r.Get("/api/hotels/{hotelId}", srv.handleHotelDetail)

	return r
}

type ctxKey int

const requestIDKey ctxKey = 0

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := contextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (srv *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !srv.snapshots.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"ingesting"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

func (srv *Server) handleBestPerHotel(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r.Context())

	s := srv.snapshots.Current()
	if s == nil {
		writeError(w, requestID, apperr.New(apperr.KindSourceUnavailable, "ingest in progress"))
		return
	}

	q, err := parseBestPerHotelQuery(r)
	if err != nil {
		writeError(w, requestID, err)
		return
	}
	if err := q.Validate(); err != nil {
		writeError(w, requestID, err)
		return
	}

	if srv.cache != nil {
		fp := cache.Fingerprint256(q.Canonicalize())
		if cached, ok := srv.cache.Get(fp); ok {
			writeJSONBytes(w, http.StatusOK, cached)
			return
		}
		rows, err := srv.planner.BestPerHotel(r.Context(), s, q)
		if err != nil {
			writeError(w, requestID, err)
			return
		}
		body, err := json.Marshal(bestPerHotelToDTO(s, rows))
		if err != nil {
			writeError(w, requestID, apperr.Wrap(apperr.KindInternal, err, "marshaling response"))
			return
		}
		srv.cache.Set(fp, body)
		writeJSONBytes(w, http.StatusOK, body)
		return
	}

	rows, err := srv.planner.BestPerHotel(r.Context(), s, q)
	if err != nil {
		writeError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, bestPerHotelToDTO(s, rows))
}

func (srv *Server) handleHotelDetail(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r.Context())

	s := srv.snapshots.Current()
	if s == nil {
		writeError(w, requestID, apperr.New(apperr.KindSourceUnavailable, "ingest in progress"))
		return
	}

	q, err := parseHotelDetailQuery(r)
	if err != nil {
		writeError(w, requestID, err)
		return
	}
	if err := q.Validate(); err != nil {
		writeError(w, requestID, err)
		return
	}

	if srv.cache != nil {
		fp := cache.Fingerprint256(q.Canonicalize())
		if cached, ok := srv.cache.Get(fp); ok {
			writeJSONBytes(w, http.StatusOK, cached)
			return
		}
		res, err := srv.planner.HotelDetail(r.Context(), s, q)
		if err != nil {
			writeError(w, requestID, err)
			return
		}
		body, err := json.Marshal(hotelDetailToDTO(s, res))
		if err != nil {
			writeError(w, requestID, apperr.Wrap(apperr.KindInternal, err, "marshaling response"))
			return
		}
		srv.cache.Set(fp, body)
		writeJSONBytes(w, http.StatusOK, body)
		return
	}

	res, err := srv.planner.HotelDetail(r.Context(), s, q)
	if err != nil {
		writeError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, hotelDetailToDTO(s, res))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSONBytes(w, status, body)
}

func writeJSONBytes(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, requestID string, err error) {
	kind := apperr.KindOf(err)
	env := errorEnvelopeDTO{
		Error: errorBodyDTO{
			Code: kind.Code(),
			Message: err.Error(),
			Details: apperr.Details(err),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
	writeJSON(w, kind.Status(), env)
}
