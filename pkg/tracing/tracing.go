// Package tracing 提供基于OpenTelemetry的链路追踪
//
// # 核心概念
//
//  1. Trace:一次完整请求的调用链,由多个Span组成
//  2. Span:一个操作单元(如一次BookService.Create、一次MySQL查询)
//  3. SpanContext:TraceID + SpanID,通过ctx在调用链中传递
//
// # 使用示例
//
//	// 启动时初始化(未启用时不调用,全局Provider保持no-op)
//	shutdown, err := tracing.InitTracer("library-api", "localhost:4317")
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
//
//	// 业务代码中创建Span
//	ctx, span := tracing.StartSpan(ctx, "library.book", "BookService.Create")
//	defer span.End()
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局TracerProvider
//
// 参数:
//
//	serviceName: 服务名(Jaeger UI中按此筛选)
//	endpoint: OTLP gRPC地址,格式host:port(默认端口4317)
//	sampleRatio: 采样比例,取值(0,1],>=1表示全量采样
//
// 返回的shutdown必须在进程退出前调用,否则最后一批Span可能丢失
func InitTracer(serviceName, endpoint string, sampleRatio float64) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. OTLP gRPC Exporter(连接是惰性的,collector不可用不会导致这里失败)
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 生产环境应启用TLS
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. Resource:附加到所有Span上的服务属性
	res, err := resource.New(
		ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. TracerProvider:批量发送Span
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(samplerFor(sampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局Provider与传播器(W3C Trace Context + Baggage)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// samplerFor 按比例选择采样器,父Span已采样时子Span跟随
func samplerFor(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// StartSpan 创建Span
// ctx中已有Span时新Span自动成为子Span
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// RecordError 记录错误并把Span状态标记为Error
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID 从ctx中提取TraceID(没有有效Span时返回空串)
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 从ctx中提取SpanID(没有有效Span时返回空串)
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
