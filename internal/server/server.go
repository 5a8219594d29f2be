// Package server exposes area code lookups over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	areacodes "github.com/paulstuart/go-areacodes"
	"github.com/paulstuart/go-areacodes/internal/metrics"
)

// MaxBatch bounds the number of points accepted by one batch request
const MaxBatch = 10_000

// Lookuper is satisfied by *areacodes.Service
type Lookuper interface {
	Lookup(lat, lon float64, returnAll bool) (areacodes.Result, error)
	BatchLookup(points []areacodes.Coordinate, returnAll bool) ([]areacodes.Result, error)
}

// LookupResponse is returned by GET /api/lookup
type LookupResponse struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	AreaCodes []string `json:"area_codes"`
}

// BatchRequest is accepted by POST /api/batch
type BatchRequest struct {
	Points []areacodes.Coordinate `json:"points"`
	All    *bool                  `json:"all,omitempty"`
}

// BatchResponse holds one result per requested point, in request order
type BatchResponse struct {
	Results [][]string `json:"results"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP API server.
type Server struct {
	addr       string
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	svc        Lookuper
}

// New creates a server for svc listening on addr
func New(addr string, svc Lookuper, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:   addr,
		router: chi.NewRouter(),
		logger: logger,
		svc:    svc,
	}
	s.router.Use(s.logging)
	s.router.Get("/health", s.health)
	s.router.Handle("/metrics", metrics.Handler())
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/lookup", s.lookup)
		r.Post("/batch", s.batch)
	})
	return s
}

// ServeHTTP lets the server be mounted or tested directly
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.logger.Info("server_start", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("server_shutdown")
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.Debug("http_request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"elapsed", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "lat: " + err.Error()})
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "lon: " + err.Error()})
		return
	}
	all := true
	if v := q.Get("all"); v != "" {
		if all, err = strconv.ParseBool(v); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "all: " + err.Error()})
			return
		}
	}

	res, err := s.svc.Lookup(lat, lon, all)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LookupResponse{Lat: lat, Lon: lon, AreaCodes: res})
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid body: " + err.Error()})
		return
	}
	if len(req.Points) > MaxBatch {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "too many points"})
		return
	}
	all := true
	if req.All != nil {
		all = *req.All
	}

	results, err := s.svc.BatchLookup(req.Points, all)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := BatchResponse{Results: make([][]string, len(results))}
	for i, res := range results {
		resp.Results[i] = res
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, areacodes.ErrInvalidCoordinate):
		status = http.StatusBadRequest
	case errors.Is(err, areacodes.ErrNoAreaCode):
		status = http.StatusNotFound
	default:
		s.logger.Error("lookup_error", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
