package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
// MySQL错误码:
// - 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容未开启TranslateError的情况
	return strings.Contains(err.Error(), "Duplicate entry")
}

// translateError 把驱动错误转换为仓储错误
// 1. ctx已取消/超时:原样返回ctx.Err(),调用方可用errors.Is判断
// 2. 唯一索引冲突:ISBN键返回ErrISBNDuplicate,主键返回ErrIDDuplicate
// 3. 其他:包装为数据库错误
func translateError(ctx context.Context, err error, message string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isDuplicateError(err) {
		if strings.Contains(err.Error(), "PRIMARY") {
			return book.ErrIDDuplicate
		}
		return book.ErrISBNDuplicate
	}
	return apperrors.WrapWithCode(apperrors.ErrCodeDatabaseError, err, message)
}
