package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Response 统一响应结构
// 设计说明:
// 1. Code是业务错误码(非HTTP状态码),0表示成功
// 2. Message是用户友好的提示信息
// 3. Data是业务数据,成功时返回,失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应(Code=0)
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应(自动处理AppError)
// 用法:
//
//	res, err := bookService.Create(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只写日志,不返回给客户端
	if appErr.Err != nil {
		log.Ctx(c.Request.Context()).Error().
			Err(appErr.Err).
			Int("code", appErr.Code).
			Str("path", c.FullPath()).
			Msg(appErr.Message)
	}

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}
