// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter(计数器):只增不减,如请求总数、缓存命中数
//   - Gauge(仪表盘):可增可减的瞬时值,如处理中的请求数、熔断器状态
//   - Histogram(直方图):观测值分布,如接口耗时
//
// # 使用示例
//
//	// 1. 启动时初始化(重复调用无副作用)
//	metrics.InitMetrics()
//
//	// 2. 暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 业务代码中记录指标
//	metrics.IncCounterVec(metrics.BookOperationsTotal, map[string]string{
//	    "operation": "create",
//	    "outcome":   "success",
//	})
//
// # 命名规范
//
//  1. Counter以_total结尾(book_operations_total)
//  2. Histogram以单位结尾(book_operation_duration_seconds)
//  3. 标签只用有限取值的维度(operation、outcome),不要用book_id这类高基数值
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initOnce 防止重复注册到默认Registry
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数(Counter)
	// 标签:method、path(路由模板,如/api/v1/books/:id)、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时(Histogram)
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数(Gauge)
	HTTPRequestsInProgress prometheus.Gauge

	// 图书服务指标

	// BookOperationsTotal 图书服务调用次数
	// 标签:operation(create/update/delete/get/list)、outcome(success/failure/error)
	// failure为业务失败(校验不通过、不存在),error为基础设施故障
	BookOperationsTotal *prometheus.CounterVec

	// BookOperationDuration 图书服务调用耗时
	BookOperationDuration *prometheus.HistogramVec

	// 缓存指标

	// CacheRequestsTotal 缓存访问次数
	// 标签:result(hit/miss/error)
	CacheRequestsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态(Gauge)
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签:name、result(success/failure/rejected)
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签:exchange、routing_key、result(success/failure)
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签:queue、result(success/failure)
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry,多次调用只生效一次
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时(秒)",
				// 1ms、10ms、100ms、500ms、1s、5s、10s
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_operations_total",
				Help: "图书服务调用次数",
			},
			[]string{"operation", "outcome"},
		)

		BookOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "book_operation_duration_seconds",
				Help: "图书服务调用耗时(秒)",
				// 内存存储在微秒级,MySQL在毫秒级
				Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"operation"},
		)

		CacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "book_cache_requests_total",
				Help: "图书缓存访问次数",
			},
			[]string{"result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_requests_total",
				Help: "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key", "result"},
		)

		MessagesConsumedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_consumed_total",
				Help: "消息消费总数",
			},
			[]string{"queue", "result"},
		)

		MessageProcessingDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "message_processing_duration_seconds",
				Help:    "消息处理耗时(秒)",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
			},
		)
	})
}

// IncCounterVec 递增CounterVec(带标签)
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值(带标签)
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值(带标签)
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
