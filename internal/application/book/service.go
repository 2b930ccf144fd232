package book

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/result"
)

// Service 图书应用服务
//
// 两种失败通道:
// 1. 业务失败(校验不通过、记录不存在)通过result.Fail返回,error为nil
// 2. 存储故障、ctx取消等基础设施错误原样通过error返回,Result为零值
type Service interface {
	// Create 校验并创建图书,总是生成新的ID
	Create(ctx context.Context, req BookRequest) (result.Result[BookDTO], error)

	// Update 校验并整体替换req.ID对应的图书
	Update(ctx context.Context, req BookRequest) (result.Result[BookDTO], error)

	// Delete 删除图书
	Delete(ctx context.Context, id string) (result.Result[bool], error)

	// GetByID 查询单本图书
	GetByID(ctx context.Context, id string) (result.Result[BookDTO], error)

	// List 查询全部图书,保持存储返回的顺序
	List(ctx context.Context) (result.Result[[]BookDTO], error)
}

// service 应用服务实现
// 不加锁:并发冲突交给存储层(唯一索引等)处理
type service struct {
	repo             book.Repository
	createValidation book.Validator
	updateValidation book.Validator
}

// NewService 创建图书应用服务
func NewService(repo book.Repository) Service {
	return &service{
		repo:             repo,
		createValidation: book.NewCreateValidation(),
		updateValidation: book.NewUpdateValidation(),
	}
}

// Create 创建图书
// 流程:字段校验 → 生成UUID → 写入仓储(一次写)
func (s *service) Create(ctx context.Context, req BookRequest) (result.Result[BookDTO], error) {
	candidate := req.toEntity(uuid.NewString())

	if err := s.createValidation.Validate(candidate); err != nil {
		return result.Fail[BookDTO](fmt.Sprintf("Could not create the book due to following error: %s", err.Error())), nil
	}

	saved, err := s.repo.Add(ctx, candidate)
	if err != nil {
		return result.Result[BookDTO]{}, err
	}
	if saved == nil {
		saved = candidate
	}

	return result.Ok(ToDTO(saved)), nil
}

// Update 更新图书
// 流程:字段校验 → 按ID查询(一次读) → 整体替换(一次写)
func (s *service) Update(ctx context.Context, req BookRequest) (result.Result[BookDTO], error) {
	if err := s.updateValidation.Validate(req.toEntity(req.ID)); err != nil {
		return result.Fail[BookDTO](fmt.Sprintf("Could not update the book due to following error: %s", err.Error())), nil
	}

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return result.Result[BookDTO]{}, err
	}
	if existing == nil {
		return result.Fail[BookDTO](notFoundMessage(req.ID)), nil
	}

	// 保留原ID,其余字段以请求为准
	replacement := req.toEntity(existing.ID)

	saved, err := s.repo.Update(ctx, existing, replacement)
	if err != nil {
		return result.Result[BookDTO]{}, err
	}
	if saved == nil {
		saved = replacement
	}

	return result.Ok(ToDTO(saved)), nil
}

// Delete 删除图书
// 注意:不存在时的提示不包含ID,与查询/更新不同
func (s *service) Delete(ctx context.Context, id string) (result.Result[bool], error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return result.Result[bool]{}, err
	}
	if existing == nil {
		return result.Fail[bool]("Failed to delete book"), nil
	}

	if err := s.repo.Delete(ctx, existing); err != nil {
		return result.Result[bool]{}, err
	}

	return result.Ok(true), nil
}

// GetByID 查询单本图书
func (s *service) GetByID(ctx context.Context, id string) (result.Result[BookDTO], error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return result.Result[BookDTO]{}, err
	}
	if b == nil {
		return result.Fail[BookDTO](notFoundMessage(id)), nil
	}

	return result.Ok(ToDTO(b)), nil
}

// List 查询全部图书
// 空库返回成功+空切片(非nil),方便序列化为[]
func (s *service) List(ctx context.Context) (result.Result[[]BookDTO], error) {
	books, err := s.repo.GetAll(ctx)
	if err != nil {
		return result.Result[[]BookDTO]{}, err
	}

	items := make([]BookDTO, 0, len(books))
	for _, b := range books {
		items = append(items, ToDTO(b))
	}

	return result.Ok(items), nil
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("Book '%s' not found", id)
}
