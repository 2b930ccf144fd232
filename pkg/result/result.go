// Package result 提供应用层统一的成功/失败返回值
//
// 设计说明:
// 1. 预期内的业务失败(校验不通过、记录不存在)通过Fail返回,不使用error
// 2. 基础设施故障(存储不可用、ctx取消)仍然走Go的error返回值,调用方分开处理
// 3. 字段不导出,只能通过Ok/Fail构造,保证"成功必无错误信息、失败必无值"
package result

// Result 成功(携带值)或失败(携带错误信息)
type Result[T any] struct {
	value   T
	err     string
	success bool
}

// Ok 构造成功结果
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, success: true}
}

// Fail 构造失败结果,值为T的零值
func Fail[T any](message string) Result[T] {
	return Result[T]{err: message}
}

// Success 是否成功
func (r Result[T]) Success() bool {
	return r.success
}

// Value 成功时的值;失败时为零值
func (r Result[T]) Value() T {
	return r.value
}

// ErrorMessage 失败时的错误信息;成功时为空串
func (r Result[T]) ErrorMessage() string {
	return r.err
}
