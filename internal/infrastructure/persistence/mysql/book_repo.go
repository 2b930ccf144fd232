package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 唯一索引冲突转换为ErrISBNDuplicate,ctx错误原样返回
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Add 新增图书
func (r *bookRepository) Add(ctx context.Context, b *book.Book) (*book.Book, error) {
	model := toBookModel(b)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, translateError(ctx, err, "创建图书失败")
	}

	return toBookEntity(model), nil
}

// Update 用updated的字段整体替换existing
// 使用map更新,保证空字符串等零值也会写入
func (r *bookRepository) Update(ctx context.Context, existing, updated *book.Book) (*book.Book, error) {
	err := r.db.WithContext(ctx).
		Model(&BookModel{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"title":    updated.Title,
			"author":   updated.Author,
			"isbn":     updated.ISBN,
			"isbn_key": book.NormalizeISBN(updated.ISBN),
		}).Error
	if err != nil {
		return nil, translateError(ctx, err, "更新图书失败")
	}

	saved := existing.Clone()
	saved.ReplaceWith(updated)
	return saved, nil
}

// Delete 删除图书(硬删除)
func (r *bookRepository) Delete(ctx context.Context, b *book.Book) error {
	if err := r.db.WithContext(ctx).Where("id = ?", b.ID).Delete(&BookModel{}).Error; err != nil {
		return translateError(ctx, err, "删除图书失败")
	}
	return nil
}

// GetAll 按创建时间返回全部图书
func (r *bookRepository) GetAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, translateError(ctx, err, "查询图书列表失败")
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books, nil
}

// GetByID 根据ID查找图书,不存在时返回(nil, nil)
func (r *bookRepository) GetByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(ctx, err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:      b.ID,
		Title:   b.Title,
		Author:  b.Author,
		ISBN:    b.ISBN,
		ISBNKey: book.NormalizeISBN(b.ISBN),
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(m *BookModel) *book.Book {
	return book.NewBook(m.ID, m.Title, m.Author, m.ISBN)
}
