package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// withRecorder 安装内存Span记录器作为全局Provider,测试结束后恢复
func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

// TestInitTracer 测试Tracer初始化(exporter惰性连接,无需collector)
func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := InitTracer("test-service", "localhost:4317", 1)
	require.NoError(t, err, "初始化Tracer失败")
	require.NotNil(t, shutdown)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "全局TracerProvider未设置")

	assert.NoError(t, shutdown(context.Background()), "关闭Tracer失败")
	t.Log("✅ Tracer初始化成功")
}

// TestStartSpan 测试Span父子关系
func TestStartSpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, root := StartSpan(context.Background(), "test", "Root")
	_, child := StartSpan(ctx, "test", "Child")
	child.End()
	root.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "Child", spans[0].Name())
	assert.Equal(t, "Root", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID(), "子Span应继承TraceID")
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID(), "子Span的父ID应为根Span")
}

// TestRecordError 测试错误记录
func TestRecordError(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background(), "test", "Failing")
	RecordError(span, errors.New("storage unavailable"))
	RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "storage unavailable", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1, "应记录一个exception事件")
}

// TestExtractIDs 测试TraceID/SpanID提取
func TestExtractIDs(t *testing.T) {
	t.Run("没有Span时返回空串", func(t *testing.T) {
		assert.Empty(t, ExtractTraceID(context.Background()))
		assert.Empty(t, ExtractSpanID(context.Background()))
	})

	t.Run("有Span时返回十六进制ID", func(t *testing.T) {
		withRecorder(t)

		ctx, span := StartSpan(context.Background(), "test", "Op")
		defer span.End()

		assert.Len(t, ExtractTraceID(ctx), 32)
		assert.Len(t, ExtractSpanID(ctx), 16)
	})
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.1).Description(), "ParentBased")
}
