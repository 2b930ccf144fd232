package book

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validator 图书字段校验器
// Validate返回nil表示通过;失败时只返回第一条触发的错误,错误文本即提示信息
type Validator interface {
	Validate(b *Book) error
}

// CreateValidation 创建图书时的字段校验
type CreateValidation struct{}

// NewCreateValidation 创建校验器
func NewCreateValidation() CreateValidation {
	return CreateValidation{}
}

// Validate 校验待创建的图书
func (CreateValidation) Validate(b *Book) error {
	return validateFields(b)
}

// UpdateValidation 更新图书时的字段校验
// 当前规则与创建一致,单独成类型以便后续分别演进
type UpdateValidation struct{}

// NewUpdateValidation 创建校验器
func NewUpdateValidation() UpdateValidation {
	return UpdateValidation{}
}

// Validate 校验待更新的图书
func (UpdateValidation) Validate(b *Book) error {
	return validateFields(b)
}

// validateFields 共享的字段规则
// 顺序固定:ISBN → 书名(先判空再判长度) → 作者(先判空再判长度),遇到第一个失败即返回
func validateFields(b *Book) error {
	if err := validation.Validate(b.ISBN, isbn13Rule); err != nil {
		return err
	}
	if err := validation.Validate(b.Title,
		notBlank(MsgTitleEmpty),
		validation.RuneLength(0, MaxTitleLength).Error(MsgTitleTooLong),
	); err != nil {
		return err
	}
	return validation.Validate(b.Author,
		notBlank(MsgAuthorEmpty),
		validation.RuneLength(0, MaxAuthorLength).Error(MsgAuthorTooLong),
	)
}

var isbn13Rule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if !IsValidISBN13(s) {
		return validation.NewError("validation_isbn13_invalid", MsgInvalidISBN)
	}
	return nil
})

// notBlank 非空校验(纯空白也视为空)
// validation.Required不会裁剪空白,这里单独实现
func notBlank(message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError("validation_blank", message)
		}
		return nil
	})
}
