package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/fundgraph/internal/http/handlers"
	httpMW "github.com/yungbote/fundgraph/internal/http/middleware"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string

	QueryHandler  *httpH.QueryHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.QueryHandler != nil {
			api.POST("/query", cfg.QueryHandler.Query)
		}
	}

	return r
}
