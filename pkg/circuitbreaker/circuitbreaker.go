// Package circuitbreaker 熔断器,保护对可选外部依赖(Redis缓存)的调用
//
// 状态转换:
//
//	CLOSED --(ReadyToTrip)--> OPEN --(Timeout到期)--> HALF_OPEN
//	HALF_OPEN --(成功)--> CLOSED
//	HALF_OPEN --(失败)--> OPEN
//
// 熔断打开时Execute直接返回ErrOpenState,调用方应走降级路径
// (例如缓存不可用时直接读写主存储)。
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/library/pkg/metrics"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开(或半开状态探测名额已满)
var ErrOpenState = errors.New("circuit breaker is open")

// Settings 熔断器配置
type Settings struct {
	// MaxRequests 半开状态允许通过的探测请求数,0按1处理
	MaxRequests uint32

	// Interval CLOSED状态下的统计窗口,0表示不按时间重置计数
	Interval time.Duration

	// Timeout OPEN状态持续时间,之后转为HALF_OPEN
	Timeout time.Duration

	// ReadyToTrip CLOSED状态下每次失败后调用,返回true则打开熔断器
	// 为nil时使用连续失败5次
	ReadyToTrip func(counts Counts) bool

	// IsSuccessful 判断一次调用结果是否计为成功,为nil时err == nil计为成功
	// 例如缓存未命中不应计为失败
	IsSuccessful func(err error) bool

	// OnStateChange 状态变化回调,在持锁状态下调用,不要在回调里再访问熔断器
	OnStateChange func(name string, from, to State)
}

// IgnoreContextErrors 可作为Settings.IsSuccessful使用
// 调用方取消或超时不代表依赖故障,不计入失败
func IgnoreContextErrors(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Counts 统计数据
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) reset() {
	*c = Counts{}
}

func (c *Counts) onSuccess() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// CircuitBreaker 熔断器,可并发使用
type CircuitBreaker struct {
	name         string
	maxRequests  uint32
	interval     time.Duration
	timeout      time.Duration
	readyToTrip  func(counts Counts) bool
	isSuccessful func(err error) bool
	onChange     func(name string, from, to State)

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增,丢弃旧状态下发起的请求结果
	counts     Counts
	expiry     time.Time

	now func() time.Time // 测试可替换
}

// New 创建熔断器
//
//	cb := circuitbreaker.New("book-cache", circuitbreaker.Settings{
//	    Timeout: 30 * time.Second,
//	    ReadyToTrip: func(c circuitbreaker.Counts) bool {
//	        return c.ConsecutiveFailures >= 3
//	    },
//	})
func New(name string, s Settings) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:         name,
		maxRequests:  s.MaxRequests,
		interval:     s.Interval,
		timeout:      s.Timeout,
		readyToTrip:  s.ReadyToTrip,
		isSuccessful: s.IsSuccessful,
		onChange:     s.OnStateChange,
		now:          time.Now,
	}
	if cb.maxRequests == 0 {
		cb.maxRequests = 1
	}
	if cb.timeout <= 0 {
		cb.timeout = 60 * time.Second
	}
	if cb.readyToTrip == nil {
		cb.readyToTrip = func(c Counts) bool { return c.ConsecutiveFailures >= 5 }
	}
	if cb.isSuccessful == nil {
		cb.isSuccessful = func(err error) bool { return err == nil }
	}
	cb.resetExpiry(cb.now())
	return cb
}

// NewObserved 创建熔断器,状态变化写日志并上报Prometheus
func NewObserved(name string, s Settings) *CircuitBreaker {
	metrics.InitMetrics()

	userHook := s.OnStateChange
	s.OnStateChange = func(name string, from, to State) {
		log.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("熔断器状态变化")
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		if userHook != nil {
			userHook(name, from, to)
		}
	}

	cb := New(name, s)
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(StateClosed))
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute 在熔断器保护下执行req
// 熔断打开时不调用req,直接返回ErrOpenState;否则返回req的错误
func (cb *CircuitBreaker) Execute(req func() error) error {
	generation, err := cb.beforeRequest()
	if err != nil {
		cb.record("rejected")
		return err
	}

	err = req()

	success := cb.isSuccessful(err)
	cb.afterRequest(generation, success)
	if success {
		cb.record("success")
	} else {
		cb.record("failure")
	}
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, _ := cb.currentState(cb.now())
	return state
}

// Counts 当前统计窗口的计数
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

func (cb *CircuitBreaker) record(result string) {
	if metrics.CircuitBreakerRequests == nil {
		return
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": cb.name, "result": result})
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.currentState(cb.now())

	if state == StateOpen {
		return generation, ErrOpenState
	}
	if state == StateHalfOpen && cb.counts.Requests >= cb.maxRequests {
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, generation := cb.currentState(now)
	if generation != before {
		return
	}

	if success {
		cb.counts.onSuccess()
		if state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.maxRequests {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.onFailure()
	switch state {
	case StateClosed:
		if cb.readyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

// currentState 处理过期:CLOSED窗口到期重置计数,OPEN超时转HALF_OPEN
func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts.reset()
			cb.generation++
			cb.resetExpiry(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	cb.generation++
	cb.counts.reset()
	cb.resetExpiry(now)

	if cb.onChange != nil {
		cb.onChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) resetExpiry(now time.Time) {
	switch cb.state {
	case StateClosed:
		if cb.interval > 0 {
			cb.expiry = now.Add(cb.interval)
		} else {
			cb.expiry = time.Time{}
		}
	case StateOpen:
		cb.expiry = now.Add(cb.timeout)
	default:
		cb.expiry = time.Time{}
	}
}
