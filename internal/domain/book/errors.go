package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
// 这些是存储层故障(基础设施错误),由仓储返回,应用层原样向上传递
var (
	// ErrBookNotFound 图书不存在(仓储更新时记录已被并发删除)
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在(唯一索引冲突)
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrIDDuplicate 图书ID已存在(主键冲突)
	ErrIDDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "图书ID已存在")
)

// 字段校验失败提示
// 注意:文案会直接返回给调用方,修改前请确认客户端没有依赖
const (
	MsgInvalidISBN   = "ISBN is not in a valid format."
	MsgTitleEmpty    = "Book title cannot be empty."
	MsgTitleTooLong  = "Book title exceeds maximum length of 150 characters."
	MsgAuthorEmpty   = "Book author cannot be empty."
	MsgAuthorTooLong = "Book author exceeds maximum length of 100 characters."
)

// 字段长度上限(按Unicode字符计数)
const (
	MaxTitleLength  = 150
	MaxAuthorLength = 100
)
