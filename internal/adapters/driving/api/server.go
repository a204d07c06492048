package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
)

// maxBodyBytes bounds the size of a locate request.
const maxBodyBytes = 64 << 20

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	// Locate places queries on genetic maps.
	Locate driving.LocateService

	// Maps exposes the map catalog.
	Maps driving.MapService

	// Defaults seeds options the request leaves unset. Nil means the
	// built-in defaults.
	Defaults *domain.LocateSettings
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Locate == nil {
		return ErrMissingLocateService
	}
	if p.Maps == nil {
		return ErrMissingMapService
	}
	return nil
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default discards logs.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRateLimit throttles locate requests to rps per second with the given
// burst. A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Server is the HTTP adapter.
type Server struct {
	ports   *Ports
	logger  *zap.Logger
	limiter *rate.Limiter
	router  chi.Router
}

// NewServer creates the HTTP adapter.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:  ports,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.With(throttle(s.limiter)).Post("/locate", s.locate)
		r.Get("/maps", s.listMaps)
		r.Get("/maps/{id}", s.getMap)
	})
	return r
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	s.logger.Info("listening", zap.String("addr", addr))
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
