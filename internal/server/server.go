package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Azure/mypl/internal/analysis"
	"github.com/Azure/mypl/pkg/config"
)

const GracefulShutdownTimeout = 10 * time.Second

// Server exposes the analyzer over HTTP.
type Server struct {
	Echo *echo.Echo

	cfg      config.ServerConfig
	analyzer *analysis.Analyzer
	logger   logr.Logger
}

func New(logger logr.Logger, cfg config.ServerConfig, a *analysis.Analyzer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo:     e,
		cfg:      cfg,
		analyzer: a,
		logger:   logger,
	}
	s.setupMiddlewares()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Echo.Use(s.requestLogger)
	if s.cfg.MaxBody != "" {
		s.Echo.Use(middleware.BodyLimit(s.cfg.MaxBody))
	}
	if s.cfg.RateLimit > 0 {
		store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.cfg.RateLimit),
			Burst:     s.cfg.Burst,
			ExpiresIn: 3 * time.Minute,
		})
		s.Echo.Use(middleware.RateLimiter(store))
	}
}

func (s *Server) setupRoutes() {
	s.Echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.Echo.Group("/v1")
	v1.POST("/check", s.check)
	v1.POST("/tokens", s.tokens)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)
		logger := s.logger.WithValues("requestID", reqID)
		ctx := logr.NewContext(c.Request().Context(), logger)
		c.SetRequest(c.Request().WithContext(ctx))

		err := next(c)
		if err != nil {
			c.Error(err)
		}
		logger.V(1).Info("handled request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"latency", time.Since(start).Milliseconds())
		return nil
	}
}

func sourceName(c echo.Context) string {
	if name := c.QueryParam("name"); name != "" {
		return name
	}
	return "request"
}

// check validates the request body as a MyPL program.
func (s *Server) check(c echo.Context) error {
	res, err := s.analyzer.Check(c.Request().Context(), sourceName(c), c.Request().Body)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(statusFor(res), res.View())
}

// tokens returns the token stream of the request body.
func (s *Server) tokens(c echo.Context) error {
	res, err := s.analyzer.Tokens(c.Request().Context(), sourceName(c), c.Request().Body)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(statusFor(res), res.View())
}

func (s *Server) internalError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	logr.FromContextOrDiscard(c.Request().Context()).Error(err, "analysis failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func statusFor(res *analysis.Result) int {
	if res.Valid() {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

// Start serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := s.Echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()
	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
