// Package httpserver exposes the cached catalog over HTTP using the same
// paths and JSON shapes as the upstream API, so the terminal client can
// point at a mirror instead of the public service.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tmazeterm/tvmaze/internal/duckdb"
	"github.com/tmazeterm/tvmaze/internal/model"
	"github.com/tmazeterm/tvmaze/internal/tvmaze"
)

// CacheStats reports cache sizes for the health endpoint.
type CacheStats interface {
	Counts(ctx context.Context) (duckdb.Counts, error)
}

// Server serves catalog reads.
type Server struct {
	addr      string
	catalog   model.CatalogReader
	stats     CacheStats
	logger    *zap.Logger
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a mirror server. stats may be nil.
func NewServer(addr string, catalog model.CatalogReader, stats CacheStats, logger *zap.Logger) *Server {
	if addr == "" {
		addr = model.DefaultMirrorAddr
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:    addr,
		catalog: catalog,
		stats:   stats,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/shows", s.handleShows)
	r.GET("/search/shows", s.handleSearch)
	r.GET("/shows/:id/seasons", s.handleSeasons)
	r.GET("/seasons/:id/episodes", s.handleEpisodes)
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())
	s.routes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mirror server stopped", zap.Error(err))
		}
	}()
	s.logger.Info("mirror listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	}
	if s.stats != nil {
		counts, err := s.stats.Counts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read cache counts"})
			return
		}
		body["cache"] = counts
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleShows(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a non-negative integer"})
		return
	}
	shows, err := s.catalog.ShowsByPage(c.Request.Context(), page)
	s.respond(c, shows, err)
}

func (s *Server) handleSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q parameter"})
		return
	}
	results, err := s.catalog.SearchShows(c.Request.Context(), q)
	s.respond(c, results, err)
}

func (s *Server) handleSeasons(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	seasons, err := s.catalog.SeasonsForShow(c.Request.Context(), id)
	s.respond(c, seasons, err)
}

func (s *Server) handleEpisodes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	episodes, err := s.catalog.EpisodesForSeason(c.Request.Context(), id)
	s.respond(c, episodes, err)
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// respond writes v, or maps err to a status: cache misses and upstream 404s
// become 404, anything else is reported as a bad gateway.
func (s *Server) respond(c *gin.Context, v any, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, v)
	case errors.Is(err, model.ErrNotCached), tvmaze.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		s.logger.Warn("catalog read failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
