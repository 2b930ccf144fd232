package book

import (
	"github.com/xiebiao/library/internal/domain/book"
)

// BookRequest 创建/更新图书的输入
// 设计说明:
// 1. Create会忽略ID,总是生成新的ID
// 2. Update以ID定位记录,其余字段整体替换(不支持部分更新)
type BookRequest struct {
	ID     string
	Title  string
	Author string
	ISBN   string
}

// toEntity 请求 → 领域实体(ID由调用方决定)
// ISBN按原样保存,唯一性由存储层按规范形式判断
func (r BookRequest) toEntity(id string) *book.Book {
	return book.NewBook(id, r.Title, r.Author, r.ISBN)
}

// BookDTO 图书输出DTO
type BookDTO struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// ToDTO 领域实体 → 输出DTO
func ToDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		ISBN:   b.ISBN,
	}
}
