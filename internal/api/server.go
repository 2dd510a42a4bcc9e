package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ForexSentinel/internal/snapshot"
)

// Server exposes the in-memory analysis state over HTTP.
type Server struct {
	router     *gin.Engine
	store      *snapshot.Store
	addr       string
	httpServer *http.Server
	startedAt  time.Time
	logger     zerolog.Logger
}

// NewServer creates the read API on addr backed by store.
func NewServer(addr string, store *snapshot.Store, logger zerolog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:    router,
		store:     store,
		addr:      addr,
		startedAt: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
	router.Use(s.requestLogger())
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/trends", s.handleTrends)
	s.router.GET("/trends/:symbol", s.handleSymbolTrends)
	s.router.GET("/aoi/:symbol", s.handleAOI)
	s.router.GET("/signals", s.handleSignals)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", s.addr).Msg("starting HTTP server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleTrends(c *gin.Context) {
	records := s.store.Trends()
	if len(records) == 0 {
		errorResponse(c, http.StatusNotFound, "no trend data available")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleSymbolTrends(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	records := s.store.TrendsFor(symbol)
	if len(records) == 0 {
		errorResponse(c, http.StatusNotFound, fmt.Sprintf("no trend data found for symbol %q", symbol))
		return
	}
	c.JSON(http.StatusOK, records)
}

// AOIResponse lists the zones of one symbol across timeframes.
type AOIResponse struct {
	Symbol     string             `json:"symbol"`
	Timeframes []snapshot.ZoneSet `json:"timeframes"`
}

// handleAOI returns the zone sets of a symbol, optionally narrowed with
// ?timeframe=.
func (s *Server) handleAOI(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	sets := s.store.ZonesFor(symbol)
	if tf := c.Query("timeframe"); tf != "" {
		var filtered []snapshot.ZoneSet
		for _, set := range sets {
			if strings.EqualFold(set.Timeframe, tf) {
				filtered = append(filtered, set)
			}
		}
		sets = filtered
	}
	if len(sets) == 0 {
		errorResponse(c, http.StatusNotFound, fmt.Sprintf("no AOI data found for symbol %q", symbol))
		return
	}
	c.JSON(http.StatusOK, AOIResponse{Symbol: symbol, Timeframes: sets})
}

func (s *Server) handleSignals(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errorResponse(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	signals := s.store.Signals(limit)
	if len(signals) == 0 {
		errorResponse(c, http.StatusNotFound, "no entry signals yet")
		return
	}
	c.JSON(http.StatusOK, signals)
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}
