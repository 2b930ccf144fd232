package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xiebiao/library/pkg/tracing"
)

// HeaderRequestID 请求ID头
const HeaderRequestID = "X-Request-ID"

// slowRequestThreshold 超过该耗时记录慢请求警告
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
// 1. 复用客户端传入的X-Request-ID,没有则生成UUID
// 2. 把带request_id(和trace_id/span_id)的logger放入request ctx,下游通过log.Ctx(ctx)获取
// 3. 请求结束后记录方法、路由、状态码、耗时、客户端IP
//
// 不记录请求体
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		ctx := c.Request.Context()
		lc := log.Logger.With().Str("request_id", requestID)
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			lc = lc.Str("trace_id", traceID).Str("span_id", tracing.ExtractSpanID(ctx))
		}
		reqLogger := lc.Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(ctx))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLogger.Error()
		case latency > slowRequestThreshold:
			event = reqLogger.Warn().Bool("slow", true)
		default:
			event = reqLogger.Info()
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP请求")
	}
}
