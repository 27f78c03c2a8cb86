// Package http provides the admin HTTP server, the metrics server and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/posrecovery/internal/config"
	"github.com/allisson/posrecovery/internal/metrics"
	recoveryHTTP "github.com/allisson/posrecovery/internal/recovery/http"
	terminalHTTP "github.com/allisson/posrecovery/internal/terminal/http"
)

// Server represents the admin HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		// a recovery pass queries every terminal before responding
		server: newHTTPServer(host, port, 60*time.Second),
	}
}

// SetupRouter configures the Gin router with all routes and middleware.
func (s *Server) SetupRouter(
	cfg *config.Config,
	recoveryHandler *recoveryHTTP.RecoveryHandler,
	terminalHandler *terminalHTTP.TerminalHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	router.Use(CustomLoggerMiddleware(s.logger))
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsProvider.Namespace()))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		recovery := v1.Group("/recovery")
		{
			recovery.POST("/run", recoveryHandler.RunHandler)
			recovery.GET("/pending", recoveryHandler.ListPendingHandler)
			recovery.POST("/pending", recoveryHandler.CreatePendingHandler)
			recovery.DELETE("/pending/:id", recoveryHandler.DeletePendingHandler)
		}

		terminals := v1.Group("/terminals")
		{
			terminals.POST("", terminalHandler.RegisterHandler)
			terminals.GET("", terminalHandler.ListHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured: call SetupRouter first")
	}
	s.server.Handler = s.router
	return listenAndServe(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness; the pending store lives in the database.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if s.db == nil || s.db.PingContext(ctx) != nil {
		dbStatus = "error"
	}

	if dbStatus != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": dbStatus},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": dbStatus},
	})
}
