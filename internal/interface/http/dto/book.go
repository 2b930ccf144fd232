package dto

// BookRequest HTTP创建/更新图书请求
// 不使用binding tag,字段校验统一由领域层完成,保证错误信息一致
type BookRequest struct {
	Title  string `json:"title" example:"Go语言实战"`
	Author string `json:"author" example:"William Kennedy"`
	ISBN   string `json:"isbn" example:"978-7-115-42802-8"` // 允许带连字符
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID     string `json:"id" example:"5b0f8a42-6d2f-4c1e-9a57-0c2d1f6b7e11"`
	Title  string `json:"title" example:"Go语言实战"`
	Author string `json:"author" example:"William Kennedy"`
	ISBN   string `json:"isbn" example:"9787115428028"`
}

// DeleteBookResponse HTTP删除图书响应
type DeleteBookResponse struct {
	ID      string `json:"id" example:"5b0f8a42-6d2f-4c1e-9a57-0c2d1f6b7e11"`
	Deleted bool   `json:"deleted" example:"true"`
}
