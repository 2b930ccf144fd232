// 图书事件消费者
//
// 订阅book.*事件并写入结构化日志,可作为审计或下游同步的起点。
// 需要mq.enabled=true的配置,队列名可通过LIBRARY_EVENTS_QUEUE覆盖。
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/mq"
)

const defaultQueue = "library.book.audit"

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("事件消费者异常退出")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	logCloser, err := logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logCloser.Close()

	if !cfg.MQ.Enabled {
		return errors.New("消息队列未启用(mq.enabled=false)")
	}

	queue := os.Getenv("LIBRARY_EVENTS_QUEUE")
	if queue == "" {
		queue = defaultQueue
	}

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, queue, []string{"book.*"})
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return consumer.Consume(ctx, handleBookEvent)
}

// handleBookEvent 无法解析的消息直接丢弃(返回nil),避免反复重新入队
func handleBookEvent(ctx context.Context, routingKey string, body []byte) error {
	var event messaging.BookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("routing_key", routingKey).Msg("丢弃无法解析的事件")
		return nil
	}

	log.Ctx(ctx).Info().
		Str("type", event.Type).
		Str("book_id", event.BookID).
		Str("isbn", event.ISBN).
		Time("occurred_at", event.OccurredAt).
		Msg("图书事件")
	return nil
}
