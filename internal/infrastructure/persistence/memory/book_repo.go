// Package memory 提供进程内图书仓储
//
// 设计说明:
// 1. 默认存储引擎,控制台程序与测试使用,进程退出数据即丢失
// 2. 读写锁保证并发安全,ISBN唯一性在写锁内按规范形式检查
// 3. 出入仓储的实体都会复制,调用方修改返回值不会影响存储
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/library/internal/domain/book"
)

// bookRepository 图书仓储实现(内存)
type bookRepository struct {
	mu     sync.RWMutex
	byID   map[string]*book.Book
	byISBN map[string]string // 规范化isbn → id
	order  []string          // 插入顺序,GetAll按此返回
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository() book.Repository {
	return &bookRepository{
		byID:   make(map[string]*book.Book),
		byISBN: make(map[string]string),
	}
}

// Add 新增图书
func (r *bookRepository) Add(ctx context.Context, b *book.Book) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byISBN[book.NormalizeISBN(b.ISBN)]; ok {
		return nil, book.ErrISBNDuplicate
	}
	if _, ok := r.byID[b.ID]; ok {
		return nil, book.ErrIDDuplicate
	}

	stored := b.Clone()
	r.byID[stored.ID] = stored
	r.byISBN[book.NormalizeISBN(stored.ISBN)] = stored.ID
	r.order = append(r.order, stored.ID)

	return stored.Clone(), nil
}

// Update 整体替换existing对应记录的可变字段
func (r *bookRepository) Update(ctx context.Context, existing, updated *book.Book) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[existing.ID]
	if !ok {
		// 读与写之间记录被并发删除
		return nil, book.ErrBookNotFound
	}
	if ownerID, taken := r.byISBN[book.NormalizeISBN(updated.ISBN)]; taken && ownerID != stored.ID {
		return nil, book.ErrISBNDuplicate
	}

	delete(r.byISBN, book.NormalizeISBN(stored.ISBN))
	stored.ReplaceWith(updated)
	r.byISBN[book.NormalizeISBN(stored.ISBN)] = stored.ID

	return stored.Clone(), nil
}

// Delete 删除图书
// 记录已不存在时视为成功(幂等)
func (r *bookRepository) Delete(ctx context.Context, b *book.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[b.ID]
	if !ok {
		return nil
	}

	delete(r.byID, stored.ID)
	delete(r.byISBN, book.NormalizeISBN(stored.ISBN))
	for i, id := range r.order {
		if id == stored.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// GetAll 按插入顺序返回全部图书的副本
func (r *bookRepository) GetAll(ctx context.Context) ([]*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]*book.Book, 0, len(r.order))
	for _, id := range r.order {
		books = append(books, r.byID[id].Clone())
	}
	return books, nil
}

// GetByID 根据ID查找图书,不存在时返回(nil, nil)
func (r *bookRepository) GetByID(ctx context.Context, id string) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byID[id].Clone(), nil
}
