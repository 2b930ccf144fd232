package book

// Book 图书实体(聚合根)
// 设计说明:
// 1. ID由应用层在创建时生成(UUID字符串),之后不可变
// 2. ISBN必须是合法的ISBN-13,唯一性由存储层保证
// 3. 实体不依赖任何ORM,持久化模型在infrastructure层单独定义
type Book struct {
	ID     string
	Title  string // 书名(非空,最多150个字符)
	Author string // 作者(非空,最多100个字符)
	ISBN   string // ISBN-13
}

// NewBook 创建图书(工厂方法)
// 调用方需先通过CreateValidation/UpdateValidation校验字段
func NewBook(id, title, author, isbn string) *Book {
	return &Book{
		ID:     id,
		Title:  title,
		Author: author,
		ISBN:   isbn,
	}
}

// Clone 返回一份独立副本
// 仓储返回的实体不应与存储内部共享引用
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// ReplaceWith 整体替换可变字段(不修改ID)
func (b *Book) ReplaceWith(other *Book) {
	b.Title = other.Title
	b.Author = other.Author
	b.ISBN = other.ISBN
}
