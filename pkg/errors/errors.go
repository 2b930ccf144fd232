package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明:
// 1. Code用于客户端判断错误类型(不直接暴露HTTP状态码)
// 2. Message是用户友好的提示信息
// 3. Err是内部错误,只记录到日志,不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误(不序列化)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误(数据库、Redis、网络等)
// 底层错误保留在Err中,errors.Is/As仍可穿透
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapWithCode 以指定错误码包装系统错误
func WrapWithCode(code int, err error, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范:
// - 4xxxx: 客户端错误(参数错误、业务规则校验失败)
// - 5xxxx: 服务端错误(数据库异常、外部服务调用失败)

const (
	// 系统级错误码(50000-50099)
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeMQError       = 50003 // 消息队列错误

	// 资源错误(40400-40499)
	ErrCodeNotFound     = 40400 // 路由不存在
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 业务规则错误(40000-40099)
	ErrCodeISBNDuplicate  = 40004 // ISBN已存在
	ErrCodeDuplicateEntry = 40009 // 重复记录(通用)

	// 参数错误(40900-40999)
	ErrCodeInvalidParams = 40900 // 参数错误(字段校验不通过)
	ErrCodeBindError     = 40901 // 参数绑定失败(JSON格式错误)
	ErrCodeInvalidID     = 40902 // ID格式错误
)

// =========================================
// 预定义错误(避免每次都New)
// =========================================

var (
	ErrInternal  = New(ErrCodeInternal, "系统内部错误")
	ErrNotFound  = New(ErrCodeNotFound, "资源不存在")
	ErrInvalidID = New(ErrCodeInvalidID, "Invalid Id format.")
)

// =========================================
// 辅助函数
// =========================================

// GetAppError 提取AppError(不是AppError则包装成Internal错误)
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// CodeOf 返回错误对应的业务码,非AppError返回ErrCodeInternal
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}
