package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// Recovery 捕获panic,记录堆栈并返回500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Ctx(c.Request.Context()).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("path", c.Request.URL.Path).
					Msg("请求处理发生panic")

				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Code:    apperrors.ErrCodeInternal,
					Message: apperrors.ErrInternal.Message,
				})
			}
		}()
		c.Next()
	}
}
