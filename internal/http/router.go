package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/materialhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/materialhub-backend/internal/http/middleware"
	"github.com/yungbote/materialhub-backend/internal/observability"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	// MaterialSections are the route segments served by MaterialHandler.
	MaterialSections []string
	MaterialHandler  *httpH.MaterialHandler
	EntityHandler    *httpH.EntityHandler
	CertHandler      *httpH.CertHandler
	FileHandler      *httpH.FileHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Materials and submissions
	if cfg.MaterialHandler != nil {
		for _, section := range cfg.MaterialSections {
			cfg.MaterialHandler.Mount(protected, section)
		}
	}

	// Generic entities
	if cfg.EntityHandler != nil {
		cfg.EntityHandler.Mount(protected)
	}

	// Certificates
	if cfg.CertHandler != nil {
		protected.POST("/certs/:id/approve", cfg.CertHandler.Approve)
	}

	// Files
	if cfg.FileHandler != nil {
		protected.GET("/files/:id", cfg.FileHandler.GetFile)
		protected.POST("/files", cfg.FileHandler.RequestUpload)
	}

	return r
}
