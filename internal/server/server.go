package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/internal/vacation"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP JSON API over a vacation manager
type Server struct {
	router  *gin.Engine
	manager *vacation.Manager
	logger  *zap.Logger
}

// New creates the server and registers its routes
func New(manager *vacation.Manager, logger *zap.Logger) *Server {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.New(),
		manager: manager,
		logger:  logger,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()

	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "default_year": s.manager.DefaultYear()})
	})

	year := api.Group("/years/:year", s.parseYear)
	{
		year.GET("/overview", s.getOverview)
		year.GET("/long-weekends", s.getLongWeekends)
		year.GET("/candidates", s.getCandidates)
		year.GET("/plan", s.getPlan)
		year.GET("/stats", s.getStats)
		year.GET("/export.ics", s.exportICS)
		year.GET("/export.xlsx", s.exportXLSX)

		year.GET("/holidays", s.listHolidays)
		year.POST("/holidays", s.addHoliday)
		year.POST("/holidays/reset", s.resetHolidays)
		year.PATCH("/holidays/:id", s.updateHoliday)
		year.POST("/holidays/:id/toggle", s.toggleHoliday)
		year.DELETE("/holidays/:id", s.deleteHoliday)

		year.PUT("/preferences", s.updatePreferences)
	}
}

// requestLogger logs every request through zap
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
