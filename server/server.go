package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxquotes/server/config"
	"github.com/sig-0/fxquotes/storage/types"
)

const healthPath = "/health"

// regionEndpoints are the region-scoped endpoints
var regionEndpoints = []string{"/quotes", "/average", "/slippage", "/summary"}

// RoutesFn is a callback that receives a router for registering routes
type RoutesFn func(router chi.Router)

// Quoter serves region quote batches
type Quoter interface {
	// GetQuotes returns the region's quotes, one per configured source
	GetQuotes(context.Context, types.Region) ([]*types.Quote, error)
}

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type Server struct {
	logger *slog.Logger
	config *config.Config

	quoter Quoter

	mux *chi.Mux
}

// New creates a new server instance
func New(quoter Quoter, opts ...Option) (*Server, error) {
	s := &Server{
		logger: noopLogger,
		quoter: quoter,
		config: config.DefaultConfig(),
		mux:    chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(r *http.Request, respStatus int) bool {
			return respStatus == 404 || respStatus == 405 || r.URL.Path == healthPath
		},
	}))

	s.mux.Get(healthPath, s.Health)

	s.mux.Get("/quotes", s.Quotes)
	s.mux.Get("/average", s.Average)
	s.mux.Get("/slippage", s.Slippage)
	s.mux.Get("/summary", s.Summary)

	s.mux.Get("/openapi.yaml", s.OpenAPI)
	s.mux.Get("/docs", s.Redoc)

	return s, nil
}

// Routes calls fn with the server mux so callers can add endpoints
func (s *Server) Routes(fn RoutesFn) {
	if fn == nil {
		return
	}

	fn(s.mux)
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve serves the fxquotes service
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.mux,
		ReadHeaderTimeout: 60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer s.logger.Info("server shut down")

		ln, err := net.Listen("tcp", server.Addr)
		if err != nil {
			return err
		}

		s.logger.Info(
			fmt.Sprintf(
				"server started at %s",
				ln.Addr().String(),
			),
		)

		s.logEndpoints(ln.Addr().String())

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-gCtx.Done()

		s.logger.Info("server to be shutdown")

		wsCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		return server.Shutdown(wsCtx)
	})

	return group.Wait()
}

// logEndpoints lists every served endpoint, per region
func (s *Server) logEndpoints(addr string) {
	base := fmt.Sprintf("http://%s", addr)

	for _, region := range types.Regions {
		urls := make([]string, 0, len(regionEndpoints))
		for _, endpoint := range regionEndpoints {
			urls = append(urls, fmt.Sprintf("%s%s?region=%s", base, endpoint, region))
		}

		s.logger.Info(
			"region endpoints available",
			"region", region.String(),
			"endpoints", urls,
		)
	}

	s.logger.Info(
		"service endpoints available",
		"health", base+healthPath,
		"docs", base+"/docs",
	)
}
