// Package api exposes the planning engine over HTTP with JSON bodies.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rgehrsitz/finplan/internal/cache"
	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/sirupsen/logrus"
)

// Server routes planning requests to a fresh engine per request. Engines
// carry no state between calls, so only the cache is shared.
type Server struct {
	logger         *logrus.Logger
	cache          cache.Cache
	cacheTTL       time.Duration
	requestTimeout time.Duration
	maxTrials      int
	router         *mux.Router
}

// DefaultMaxTrials is the largest simulation a request may ask for unless
// WithMaxTrials says otherwise.
const DefaultMaxTrials = 100000

// Option configures a Server.
type Option func(*Server)

// WithCache enables caching of seeded simulation results.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithRequestTimeout bounds the engine work done for one request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

// WithMaxTrials caps the trial count of one simulation request. Values
// below one keep the default.
func WithMaxTrials(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxTrials = n
		}
	}
}

func NewServer(logger *logrus.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		logger:         logger,
		requestTimeout: 30 * time.Second,
		maxTrials:      DefaultMaxTrials,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(s.timeoutMiddleware)

	debts := v1.PathPrefix("/debts").Subrouter()
	debts.HandleFunc("/optimize", s.handleDebtOptimize).Methods(http.MethodPost)
	debts.HandleFunc("/compare", s.handleDebtCompare).Methods(http.MethodPost)
	debts.HandleFunc("/consolidation", s.handleConsolidation).Methods(http.MethodPost)
	debts.HandleFunc("/accelerate", s.handleAccelerate).Methods(http.MethodPost)
	debts.HandleFunc("/waterfall", s.handleWaterfall).Methods(http.MethodPost)

	retirement := v1.PathPrefix("/retirement").Subrouter()
	retirement.HandleFunc("/projection", s.handleProjection).Methods(http.MethodPost)
	retirement.HandleFunc("/yearly", s.handleYearly).Methods(http.MethodPost)
	retirement.HandleFunc("/simulation", s.handleSimulation).Methods(http.MethodPost)
	retirement.HandleFunc("/sensitivity", s.handleSensitivity).Methods(http.MethodPost)
	retirement.HandleFunc("/whatif", s.handleWhatIf).Methods(http.MethodPost)
	retirement.HandleFunc("/solve", s.handleSolve).Methods(http.MethodPost)

	v1.HandleFunc("/goals/prioritize", s.handlePrioritize).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// engine builds a calculation engine for one request's settings, logging
// through the request's entry.
func (s *Server) engine(settings domain.Settings, log *logrus.Entry) *calculation.CalculationEngine {
	ce := calculation.NewCalculationEngineWithSettings(settings)
	ce.SetLogger(log)
	return ce
}
