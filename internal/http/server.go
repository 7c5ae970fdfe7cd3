// Package http provides the API server and its route registration.
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

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	authHTTP "github.com/queryware/sqlgate/internal/auth/http"
	authUseCase "github.com/queryware/sqlgate/internal/auth/usecase"
	"github.com/queryware/sqlgate/internal/config"
	"github.com/queryware/sqlgate/internal/metrics"
	queryHTTP "github.com/queryware/sqlgate/internal/query/http"
	"github.com/queryware/sqlgate/internal/ratelimit"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// RouterConfig carries the handlers and middleware dependencies needed to
// register the API routes.
type RouterConfig struct {
	Config           *config.Config
	Authenticator    authUseCase.Authenticator
	Governor         *ratelimit.Governor
	TokenRateLimiter *authHTTP.TokenRateLimiter
	GateMetrics      metrics.GateMetrics
	MetricsProvider  *metrics.Provider
	TokenHandler     *authHTTP.TokenHandler
	AdminHandler     *authHTTP.AdminHandler
	QueryHandler     *queryHTTP.QueryHandler
}

// NewServer creates a new API server. The database handle is used only by the
// readiness probe; routes are registered separately via SetupRouter.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin router and registers all API routes.
//
// Governed routes run the pipeline authentication, authorization, rate
// governor, handler. Each stage is terminal on failure; later stages are
// never invoked, so a rejected credential costs no rate quota.
func (s *Server) SetupRouter(rc RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		rc.Config.CORSEnabled,
		rc.Config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if rc.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			rc.MetricsProvider.MeterProvider(),
			rc.Config.MetricsNamespace,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Token issuance is unauthenticated; per-IP throttling protects it.
	tokenGroup := router.Group("/v1")
	if rc.Config.RateLimitTokenEnabled && rc.TokenRateLimiter != nil {
		tokenGroup.Use(rc.TokenRateLimiter.Middleware(s.logger))
	}
	tokenGroup.POST("/token", rc.TokenHandler.IssueTokenHandler)

	authenticated := router.Group("/v1")
	authenticated.Use(authHTTP.AuthenticationMiddleware(rc.Authenticator, s.logger))

	authenticated.GET("/whoami", rc.TokenHandler.WhoamiHandler)

	governed := func(capability authDomain.Capability, handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{authHTTP.AuthorizationMiddleware(capability, s.logger)}
		if rc.Config.RateLimitEnabled {
			chain = append(chain, authHTTP.GovernorMiddleware(rc.Governor, rc.GateMetrics, s.logger))
		}
		return append(chain, handler)
	}

	authenticated.POST("/query",
		governed(authDomain.QueryCapability, rc.QueryHandler.ExecuteQueryHandler)...)
	authenticated.GET("/query/templates",
		governed(authDomain.QueryCapability, rc.QueryHandler.ListTemplatesHandler)...)
	authenticated.POST("/query/templates/:id",
		governed(authDomain.QueryCapability, rc.QueryHandler.ExecuteTemplateHandler)...)
	authenticated.GET("/query/history",
		governed(authDomain.QueryCapability, rc.QueryHandler.HistoryHandler)...)

	authenticated.GET("/datasets",
		governed(authDomain.ReadCapability, rc.QueryHandler.ListDatasetsHandler)...)
	authenticated.GET("/datasets/:table/schema",
		governed(authDomain.ReadCapability, rc.QueryHandler.GetSchemaHandler)...)

	authenticated.GET("/admin/rate-limits",
		governed(authDomain.AdminCapability, rc.AdminHandler.ListRateLimitsHandler)...)
	authenticated.DELETE("/admin/rate-limits/:identity",
		governed(authDomain.AdminCapability, rc.AdminHandler.ClearRateLimitHandler)...)
	authenticated.GET("/admin/stats",
		governed(authDomain.AdminCapability, rc.AdminHandler.StatsHandler)...)
	authenticated.GET("/admin/keys",
		governed(authDomain.AdminCapability, rc.AdminHandler.ListKeysHandler)...)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness including database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := "ready"
	code := http.StatusOK

	if s.db == nil {
		components["database"] = "error"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			status = "not_ready"
			code = http.StatusServiceUnavailable
		} else {
			components["database"] = "ok"
		}
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting api server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start api server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down api server")
	return s.server.Shutdown(ctx)
}
