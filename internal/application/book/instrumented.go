package book

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/result"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "library.book"

// 调用结果分类(指标标签)
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure" // 业务失败:校验不通过、不存在
	outcomeError   = "error"   // 基础设施故障
)

// instrumentedService 为Service增加链路追踪、指标与日志
// 只做观测,不改变被包装Service的任何返回值
type instrumentedService struct {
	next Service
}

// NewInstrumentedService 包装Service
func NewInstrumentedService(next Service) Service {
	metrics.InitMetrics()
	return &instrumentedService{next: next}
}

func (s *instrumentedService) Create(ctx context.Context, req BookRequest) (result.Result[BookDTO], error) {
	return observe(ctx, "create", []attribute.KeyValue{attribute.String("book.isbn", req.ISBN)},
		func(ctx context.Context) (result.Result[BookDTO], error) {
			return s.next.Create(ctx, req)
		})
}

func (s *instrumentedService) Update(ctx context.Context, req BookRequest) (result.Result[BookDTO], error) {
	return observe(ctx, "update", []attribute.KeyValue{attribute.String("book.id", req.ID)},
		func(ctx context.Context) (result.Result[BookDTO], error) {
			return s.next.Update(ctx, req)
		})
}

func (s *instrumentedService) Delete(ctx context.Context, id string) (result.Result[bool], error) {
	return observe(ctx, "delete", []attribute.KeyValue{attribute.String("book.id", id)},
		func(ctx context.Context) (result.Result[bool], error) {
			return s.next.Delete(ctx, id)
		})
}

func (s *instrumentedService) GetByID(ctx context.Context, id string) (result.Result[BookDTO], error) {
	return observe(ctx, "get", []attribute.KeyValue{attribute.String("book.id", id)},
		func(ctx context.Context) (result.Result[BookDTO], error) {
			return s.next.GetByID(ctx, id)
		})
}

func (s *instrumentedService) List(ctx context.Context) (result.Result[[]BookDTO], error) {
	return observe(ctx, "list", nil, func(ctx context.Context) (result.Result[[]BookDTO], error) {
		return s.next.List(ctx)
	})
}

// observe 执行一次服务调用并记录Span、耗时、结果计数
func observe[T any](
	ctx context.Context,
	operation string,
	attrs []attribute.KeyValue,
	call func(ctx context.Context) (result.Result[T], error),
) (result.Result[T], error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService."+operation)
	defer span.End()
	span.SetAttributes(attrs...)

	start := time.Now()
	res, err := call(ctx)
	elapsed := time.Since(start)

	outcome := outcomeSuccess
	switch {
	case err != nil:
		outcome = outcomeError
		tracing.RecordError(span, err)
		log.Ctx(ctx).Error().Err(err).
			Str("operation", operation).
			Int("code", apperrors.CodeOf(err)).
			Dur("elapsed", elapsed).
			Msg("图书服务调用失败")
	case !res.Success():
		outcome = outcomeFailure
		span.SetAttributes(attribute.String("book.failure", res.ErrorMessage()))
		log.Ctx(ctx).Debug().
			Str("operation", operation).
			Str("reason", res.ErrorMessage()).
			Msg("图书服务返回业务失败")
	}

	metrics.ObserveHistogramVec(metrics.BookOperationDuration, map[string]string{"operation": operation}, elapsed.Seconds())
	metrics.IncCounterVec(metrics.BookOperationsTotal, map[string]string{"operation": operation, "outcome": outcome})

	return res, err
}
