// Package httpapi exposes the session and document services over a JSON
// HTTP API served by echo under /api.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	bodyLimit       = "1M"
	rateLimitWindow = 15 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// Options tune the HTTP server.
type Options struct {
	Address string
	Version string
	// CORSOrigin is sent as Access-Control-Allow-Origin.
	CORSOrigin string
	// RateLimit is the number of requests per client IP per 15 minutes.
	// Zero or less disables limiting.
	RateLimit int
}

type HTTPServer struct {
	opts     Options
	sessions *services.SessionService
	docs     *services.DocumentService
	logger   logging.Logger
	echo     *echo.Echo
}

func NewHTTPServer(opts Options, l logging.Logger, sessions *services.SessionService, docs *services.DocumentService) *HTTPServer {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	s := &HTTPServer{
		opts:     opts,
		sessions: sessions,
		docs:     docs,
		logger:   l.With("module", "http_server"),
	}
	s.echo = s.newEcho()
	return s
}

// Handler returns the configured router, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

func (s *HTTPServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())
	e.Use(middleware.CORSWithConfig(s.corsConfig()))
	if s.opts.RateLimit > 0 {
		e.Use(s.rateLimiter())
	}
	e.Use(middleware.BodyLimit(bodyLimit))

	api := e.Group("/api")
	api.GET("/health", s.health)

	a := api.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/refresh", s.refresh)
	a.POST("/logout", s.logout)
	a.GET("/me", s.me, s.requireAccessToken)

	d := api.Group("/documents", s.requireAccessToken)
	d.GET("", s.listDocuments)
	d.POST("", s.createDocument)
	d.GET("/:id", s.getDocument)
	d.PUT("/:id", s.updateDocument)
	d.PATCH("/:id", s.updateDocument)
	d.DELETE("/:id", s.deleteDocument)
	d.GET("/:id/versions", s.listVersions)

	n := api.Group("/notebooks", s.requireAccessToken)
	n.GET("", s.listNotebooks)
	n.POST("", s.createNotebook)
	n.DELETE("/:id", s.deleteNotebook)
	n.GET("/:id/section-groups", s.listSectionGroups)
	n.POST("/:id/section-groups", s.createSectionGroup)
	n.GET("/:id/sections", s.listSections)
	n.POST("/:id/sections", s.createSection)

	api.DELETE("/section-groups/:id", s.deleteSectionGroup, s.requireAccessToken)
	api.DELETE("/sections/:id", s.deleteSection, s.requireAccessToken)

	return e
}

func (s *HTTPServer) corsConfig() middleware.CORSConfig {
	cfg := middleware.CORSConfig{
		AllowOrigins: []string{s.opts.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}
	if s.opts.CORSOrigin == "" {
		cfg.AllowOrigins = []string{"*"}
	}
	// browsers reject credentials together with a wildcard origin
	cfg.AllowCredentials = cfg.AllowOrigins[0] != "*"
	return cfg
}

func (s *HTTPServer) rateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(s.opts.RateLimit) / rateLimitWindow.Seconds()),
		Burst:     s.opts.RateLimit,
		ExpiresIn: rateLimitWindow,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
		},
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)

	if err := s.echo.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   s.opts.Version,
	})
}
