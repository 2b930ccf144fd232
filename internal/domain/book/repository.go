package book

import (
	"context"
)

//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(memory / mysql)
// 2. 缓存、事件发布等能力以装饰器形式叠加,应用层无感知
// 3. 所有方法都接收ctx,ctx取消后必须尽快返回ctx.Err()
type Repository interface {
	// Add 新增图书
	// ISBN重复时返回ErrISBNDuplicate
	Add(ctx context.Context, book *Book) (*Book, error)

	// Update 用updated的字段整体替换existing(以existing.ID定位)
	Update(ctx context.Context, existing, updated *Book) (*Book, error)

	// Delete 删除图书(硬删除)
	Delete(ctx context.Context, book *Book) error

	// GetAll 返回全部图书的快照(按存储顺序)
	// 返回的实体与存储内部状态无关联
	GetAll(ctx context.Context) ([]*Book, error)

	// GetByID 根据ID查找图书
	// 不存在时返回(nil, nil),不视为错误
	GetByID(ctx context.Context, id string) (*Book, error)
}
