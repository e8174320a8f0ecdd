// Package server exposes the catalog as a small JSON HTTP API.
//
//	GET /healthz
//	GET /v1/search?q=<query>[&by=<field>][&limit=<n>]
//	GET /v1/info?q=<query>
//
// Errors are answered as {"code": ..., "message": ..., "request_id": ...}
// with the HTTP status derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archquery/pkg/catalog"
	"github.com/matzehuels/archquery/pkg/errors"
	"github.com/matzehuels/archquery/pkg/integrations/aur"
)

// MaxLimit caps the limit query parameter.
const MaxLimit = 500

// Catalog is the part of [catalog.Catalog] the API serves.
type Catalog interface {
	SearchWith(ctx context.Context, query string, opts catalog.SearchOptions) ([]catalog.Scored, error)
	Info(ctx context.Context, query string) (*catalog.Package, error)
}

// Server routes API requests to a catalog.
type Server struct {
	cat    Catalog
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil logger uses [log.Default].
func New(cat Catalog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cat: cat, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/info", s.handleInfo)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, errors.New(errors.ErrCodeNoResults, "no route for %s", r.URL.Path))
	})
	s.router = r
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests a few seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchResponse struct {
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Results []catalog.Scored `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")

	by, err := aur.ParseBy(q.Get("by"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid by parameter"))
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 || limit > MaxLimit {
			writeError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidArgument, "limit must be between 0 and %d", MaxLimit))
			return
		}
	}

	results, err := s.cat.SearchWith(r.Context(), query, catalog.SearchOptions{By: by, Limit: limit})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if results == nil {
		results = []catalog.Scored{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Count: len(results), Results: results})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	pkg, err := s.cat.Info(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// fail logs server-side failures and writes the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "err", err)
	}
	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
	}
	writeError(w, r, status, err)
}

// statusFor maps an error code to an HTTP status. Registry failures are
// upstream problems and map to 502.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNoParams, errors.ErrCodeInvalidPackage, errors.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case errors.ErrCodeNoResults:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeFetch, errors.ErrCodeResponse:
		return http.StatusBadGateway
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
