package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	// 重复调用不应panic(重复注册会panic)
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal, "HTTPRequestsTotal未初始化")
	assert.NotNil(t, HTTPRequestDuration, "HTTPRequestDuration未初始化")
	assert.NotNil(t, HTTPRequestsInProgress, "HTTPRequestsInProgress未初始化")
	assert.NotNil(t, BookOperationsTotal, "BookOperationsTotal未初始化")
	assert.NotNil(t, CacheRequestsTotal, "CacheRequestsTotal未初始化")
	assert.NotNil(t, MessagesPublishedTotal, "MessagesPublishedTotal未初始化")

	t.Log("✅ 所有指标初始化成功")
}

// TestCounterVec 测试CounterVec指标
func TestCounterVec(t *testing.T) {
	InitMetrics()

	created := map[string]string{"operation": "create", "outcome": "success"}
	failed := map[string]string{"operation": "create", "outcome": "failure"}

	IncCounterVec(BookOperationsTotal, created)
	IncCounterVec(BookOperationsTotal, created)
	IncCounterVec(BookOperationsTotal, failed)

	assert.Equal(t, float64(2), getCounterVecValue(t, BookOperationsTotal, created))
	assert.Equal(t, float64(1), getCounterVecValue(t, BookOperationsTotal, failed))

	t.Log("✅ CounterVec测试通过")
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()
	base := getGaugeValue(t, HTTPRequestsInProgress)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	assert.Equal(t, base+2, getGaugeValue(t, HTTPRequestsInProgress))

	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, base+1, getGaugeValue(t, HTTPRequestsInProgress))

	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, base, getGaugeValue(t, HTTPRequestsInProgress))

	t.Log("✅ Gauge测试通过")
}

// TestGaugeVec 测试GaugeVec指标
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "book-cache"}, 1)
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "other"}, 2)

	assert.Equal(t, float64(1), getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "book-cache"}))
	assert.Equal(t, float64(2), getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "other"}))
}

// TestHistogram 测试Histogram指标
func TestHistogram(t *testing.T) {
	InitMetrics()

	ObserveHistogram(MessageProcessingDuration, 0.05)
	ObserveHistogram(MessageProcessingDuration, 0.5)
	ObserveHistogram(MessageProcessingDuration, 1.0)

	var metric dto.Metric
	require.NoError(t, MessageProcessingDuration.Write(&metric))
	assert.Equal(t, uint64(3), metric.Histogram.GetSampleCount())
	assert.InDelta(t, 1.55, metric.Histogram.GetSampleSum(), 1e-9)
}

// TestHistogramVec 测试HistogramVec指标
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	ObserveHistogramVec(BookOperationDuration, map[string]string{"operation": "list"}, 0.001)
	ObserveHistogramVec(BookOperationDuration, map[string]string{"operation": "list"}, 0.002)
	ObserveHistogramVec(BookOperationDuration, map[string]string{"operation": "get"}, 0.003)

	var metric dto.Metric
	histogram := BookOperationDuration.With(map[string]string{"operation": "list"})
	require.NoError(t, histogram.(prometheus.Histogram).Write(&metric))
	assert.Equal(t, uint64(2), metric.Histogram.GetSampleCount())

	t.Log("✅ HistogramVec测试通过")
}

// 辅助函数:获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counterVec.With(labels).Write(&metric), "读取CounterVec值失败")
	return metric.Counter.GetValue()
}

// 辅助函数:获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, gauge.Write(&metric), "读取Gauge值失败")
	return metric.Gauge.GetValue()
}

// 辅助函数:获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, gaugeVec.With(labels).Write(&metric), "读取GaugeVec值失败")
	return metric.Gauge.GetValue()
}
