// Package storage 按配置组装图书仓储
//
// 组装顺序(由内到外):
//
//	存储引擎(memory | mysql) → Redis缓存(redis.enabled) → 事件发布(mq.enabled,否则NoopPublisher)
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/mq"
)

// cacheBreakerName 缓存熔断器名称,也是metrics的name标签
const cacheBreakerName = "book-cache"

// NewRepository 创建图书仓储
// 返回的cleanup按创建的逆序释放连接
func NewRepository(cfg *config.Config) (book.Repository, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var repo book.Repository
	switch cfg.Storage.Driver {
	case config.StorageMySQL:
		db, closeDB, err := mysql.NewDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, closeDB)
		repo = mysql.NewBookRepository(db)
	case config.StorageMemory:
		repo = memory.NewBookRepository()
	default:
		return nil, nil, fmt.Errorf("不支持的存储引擎: %s", cfg.Storage.Driver)
	}

	if cfg.Redis.Enabled {
		cached, closeRedis, err := newCachedRepository(cfg, repo)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, closeRedis)
		repo = cached
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("关闭消息发布者失败")
		}
	})
	repo = messaging.NewEventRepository(repo, publisher)

	log.Info().
		Str("driver", cfg.Storage.Driver).
		Bool("cache", cfg.Redis.Enabled).
		Bool("events", cfg.MQ.Enabled).
		Msg("✓ 图书仓储已就绪")

	return repo, cleanup, nil
}

func newCachedRepository(cfg *config.Config, next book.Repository) (book.Repository, func(), error) {
	timeout := cfg.Redis.DialTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, closeRedis, err := redis.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	breaker := circuitbreaker.NewObserved(cacheBreakerName, circuitbreaker.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5 || (c.Requests >= 20 && c.FailureRate() >= 0.5)
		},
		IsSuccessful: circuitbreaker.IgnoreContextErrors,
	})

	repo := redis.NewCachedRepository(next, redis.NewCache(client), breaker, cfg.Redis.CacheTTL, cfg.Redis.KeyPrefix)
	return repo, closeRedis, nil
}

func newPublisher(cfg *config.Config) (messaging.Publisher, error) {
	if !cfg.MQ.Enabled {
		return messaging.NoopPublisher{}, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
}
