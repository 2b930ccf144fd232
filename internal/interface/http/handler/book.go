package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	service appbook.Service
}

// NewBookHandler 创建图书处理器
func NewBookHandler(service appbook.Service) *BookHandler {
	return &BookHandler{service: service}
}

// RegisterRoutes 注册 /books 路由
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.POST("", h.CreateBook)
		books.GET("", h.ListBooks)
		books.GET("/:id", h.GetBook)
		books.PUT("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  校验ISBN-13、书名、作者后创建图书,ID由服务端生成
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "40900参数校验失败 / 40004 ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return
	}

	res, err := h.service.Create(c.Request.Context(), appbook.BookRequest{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if !res.Success() {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, res.ErrorMessage())
		return
	}

	response.Success(c, toBookResponse(res.Value()))
}

// ListBooks 查询全部图书
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	books := res.Value()
	items := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, toBookResponse(b))
	}
	response.Success(c, items)
}

// GetBook 查询单本图书
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID(UUID)"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "40902 ID格式错误 / 40402 图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !res.Success() {
		response.ErrorWithCode(c, apperrors.ErrCodeBookNotFound, res.ErrorMessage())
		return
	}

	response.Success(c, toBookResponse(res.Value()))
}

// UpdateBook 整体替换图书信息
// @Summary      更新图书
// @Description  书名、作者、ISBN整体替换,ID不变
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path string true "图书ID(UUID)"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      200 {object} response.Response "40900参数校验失败 / 40402图书不存在 / 40004 ISBN已存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return
	}

	res, err := h.service.Update(c.Request.Context(), appbook.BookRequest{
		ID:     id,
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if !res.Success() {
		response.ErrorWithCode(c, updateFailureCode(res.ErrorMessage()), res.ErrorMessage())
		return
	}

	response.Success(c, toBookResponse(res.Value()))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID(UUID)"
// @Success      200 {object} response.Response{data=dto.DeleteBookResponse}
// @Failure      200 {object} response.Response "40902 ID格式错误 / 40402图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !res.Success() {
		response.ErrorWithCode(c, apperrors.ErrCodeBookNotFound, res.ErrorMessage())
		return
	}

	response.Success(c, &dto.DeleteBookResponse{ID: id, Deleted: res.Value()})
}

// bookID 解析路径中的UUID,格式错误时直接写响应
func bookID(c *gin.Context) (string, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(c, apperrors.ErrInvalidID)
		return "", false
	}
	return id.String(), true
}

// updateFailureCode 更新失败分两类:字段校验失败和记录不存在
func updateFailureCode(message string) int {
	if strings.HasSuffix(message, "not found") {
		return apperrors.ErrCodeBookNotFound
	}
	return apperrors.ErrCodeInvalidParams
}

func toBookResponse(b appbook.BookDTO) dto.BookResponse {
	return dto.BookResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		ISBN:   b.ISBN,
	}
}
