// Package server exposes the explain pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/simpledoc/simpledoc/internal/cache"
	"github.com/simpledoc/simpledoc/internal/model"
	"github.com/simpledoc/simpledoc/internal/pipeline"
	"github.com/simpledoc/simpledoc/internal/template"
)

// Server serves POST /explain, GET /templates and GET /health.
type Server struct {
	echo        *echo.Echo
	pipeline    *pipeline.Pipeline
	cache       cache.Cache // nil when caching is disabled
	limiter     *Limiter
	logger      *zap.Logger
	config      model.ServerConfig
	compiledDir string
	cacheTTL    time.Duration
	locale      string
}

// New creates a server around a ready pipeline. logger is required;
// responseCache may be nil to disable memoization.
func New(p *pipeline.Pipeline, responseCache cache.Cache, logger *zap.Logger, cfg *model.Config) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			c.Response().Header().Set("x-response-time-ms",
				fmt.Sprintf("%d", duration.Milliseconds()))

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:        e,
		pipeline:    p,
		cache:       responseCache,
		limiter:     NewLimiter(cfg.Server.RateLimitRPM, time.Minute),
		logger:      logger,
		config:      cfg.Server,
		compiledDir: cfg.Templates.CompiledDir,
		cacheTTL:    cfg.Cache.DiskTTL,
		locale:      cfg.Locale,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/templates", s.handleTemplates)
	s.echo.POST("/explain", s.handleExplain)
}

// DocMeta carries optional caller-supplied metadata about the document.
type DocMeta struct {
	TypeHint string `json:"typeHint"`
	Pages    int    `json:"pages"`
}

// ExplainRequest is the body of POST /explain.
type ExplainRequest struct {
	DocText  string  `json:"docText"`
	DocMeta  DocMeta `json:"docMeta"`
	Locale   string  `json:"locale"`
	Hints    bool    `json:"hints"`
	DeviceID string  `json:"deviceId"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleTemplates advertises the supported document types from the
// compiled index, falling back to an empty list when no index exists.
func (s *Server) handleTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, template.LoadIndex(s.compiledDir))
}

// handleExplain runs the pipeline for one document, memoizing responses
// by content hash. The engine never errors: the only failure modes here
// are input validation and rate limiting.
func (s *Server) handleExplain(c echo.Context) error {
	var req ExplainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if !s.limiter.Allow(req.DeviceID) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
	}

	text := strings.TrimSpace(req.DocText)
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "docText is required")
	}

	key := cache.Key(text)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			return c.JSONBlob(http.StatusOK, cached)
		}
	}

	locale := req.Locale
	if locale == "" {
		locale = s.locale
	}

	explanation := s.pipeline.Explain(c.Request().Context(), pipeline.Request{
		DocText:  text,
		TypeHint: req.DocMeta.TypeHint,
		Locale:   locale,
	})

	if s.cache != nil {
		if data, err := json.Marshal(explanation); err == nil {
			if err := s.cache.Set(key, data, s.cacheTTL); err != nil {
				s.logger.Warn("cache set failed", zap.Error(err))
			}
		}
	}

	return c.JSON(http.StatusOK, explanation)
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets tests drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
