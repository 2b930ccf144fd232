package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Cache 键值缓存
// Get未命中返回(false, nil),只有后端故障才返回error
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// jsonCache 基于Redis的Cache实现,值以JSON存储
type jsonCache struct {
	client redis.UniversalClient
}

// NewCache 创建Redis缓存
func NewCache(client redis.UniversalClient) Cache {
	return &jsonCache{client: client}
}

func (c *jsonCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.WrapWithCode(apperrors.ErrCodeRedisError, err, "读取缓存失败 key="+key)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, apperrors.WrapWithCode(apperrors.ErrCodeRedisError, err, "缓存数据损坏 key="+key)
	}
	return true, nil
}

func (c *jsonCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.WrapWithCode(apperrors.ErrCodeRedisError, err, "缓存序列化失败")
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return apperrors.WrapWithCode(apperrors.ErrCodeRedisError, err, "写入缓存失败 key="+key)
	}
	return nil
}

func (c *jsonCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.WrapWithCode(apperrors.ErrCodeRedisError, err, "删除缓存失败")
	}
	return nil
}
