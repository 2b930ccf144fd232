package messaging

//go:generate mockgen -source=publisher.go -destination=mock/publisher_mock.go -package=mock

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/library/pkg/mq"
)

// Publisher 事件发布接口
// pkg/mq.Publisher是RabbitMQ实现
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Close() error
}

// NoopPublisher 未启用消息队列时使用,只记录debug日志
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, _ interface{}) error {
	log.Ctx(ctx).Debug().Str("routing_key", routingKey).Msg("消息队列未启用,跳过事件发布")
	return nil
}

func (NoopPublisher) Close() error { return nil }

var _ Publisher = (*mq.Publisher)(nil)
