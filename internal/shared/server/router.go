package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signflow-backend/internal/analysis"
	"signflow-backend/internal/assistant"
	"signflow-backend/internal/compliance"
	"signflow-backend/internal/documents"
	"signflow-backend/internal/services/health"
	"signflow-backend/internal/shared/config"
	"signflow-backend/internal/shared/metrics"
	"signflow-backend/internal/shared/server/middleware"
	"signflow-backend/internal/shared/server/respond"
	"signflow-backend/internal/workflow"
)

// RouterDeps carries the handlers wired by bootstrap.
type RouterDeps struct {
	Config            config.Config
	Health            *health.Service
	DocumentsHandler  *documents.Handler
	AnalysisHandler   *analysis.Handler
	WorkflowHandler   *workflow.Handler
	ComplianceHandler *compliance.Handler
	AssistantHandler  *assistant.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimits()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})

	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.WorkflowHandler != nil {
		deps.WorkflowHandler.RegisterRoutes(api)
	}
	if deps.ComplianceHandler != nil {
		deps.ComplianceHandler.RegisterRoutes(api)
	}
	if deps.AssistantHandler != nil {
		deps.AssistantHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimits throttles the expensive routes per client IP. Routes without a
// matching group are unthrottled.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"ANALYZE":   {Rate: 0.5, Burst: 5},
			"ASSISTANT": {Rate: 1, Burst: 10},
		},
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			switch {
			case strings.HasSuffix(path, "/analyze"), strings.HasSuffix(path, "/workflows/optimize"), strings.HasSuffix(path, "/compliance/check"):
				return "ANALYZE"
			case strings.HasSuffix(path, "/assistant/message"):
				return "ASSISTANT"
			default:
				return ""
			}
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
