package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// New 创建Gin引擎并注册所有路由
//
// 中间件顺序:Recovery → Tracing → Logger → Metrics → CORS
//
// 路由:
//
//	GET  /ping            健康检查
//	GET  /metrics         Prometheus指标
//	GET  /swagger/*any    API文档(release模式不注册)
//	     /api/v1/books    图书CRUD
//
// 未匹配的路由返回404和统一响应结构
func New(cfg *config.Config, bookHandler *handler.BookHandler) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	bookHandler.RegisterRoutes(v1)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Response{
			Code:    apperrors.ErrNotFound.Code,
			Message: apperrors.ErrNotFound.Message,
		})
	})

	return r
}
