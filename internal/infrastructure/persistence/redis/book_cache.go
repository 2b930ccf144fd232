package redis

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/metrics"
)

// cachedBook 缓存中的图书结构
type cachedBook struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// cachedRepository 旁路缓存(Cache-Aside)装饰器
// 设计说明:
// 1. GetByID先查缓存,未命中读主存储并回填;不存在的记录不缓存
// 2. Add成功后写缓存,Update/Delete成功后删除缓存
// 3. GetAll直接读主存储,保持列表顺序与主存储一致
// 4. 缓存故障只记录日志,不影响主流程;连续故障后熔断器打开,直接跳过缓存
// 5. 调用方已取消时直接返回ctx错误,不访问缓存,也不计为缓存故障
type cachedRepository struct {
	next    book.Repository
	cache   Cache
	breaker *circuitbreaker.CircuitBreaker
	ttl     time.Duration
	prefix  string
}

// NewCachedRepository 创建带缓存的图书仓储
func NewCachedRepository(next book.Repository, cache Cache, breaker *circuitbreaker.CircuitBreaker, ttl time.Duration, prefix string) book.Repository {
	metrics.InitMetrics()
	return &cachedRepository{
		next:    next,
		cache:   cache,
		breaker: breaker,
		ttl:     ttl,
		prefix:  prefix,
	}
}

func (r *cachedRepository) key(id string) string {
	return r.prefix + id
}

func (r *cachedRepository) Add(ctx context.Context, b *book.Book) (*book.Book, error) {
	saved, err := r.next.Add(ctx, b)
	if err != nil {
		return nil, err
	}
	r.store(ctx, saved)
	return saved, nil
}

func (r *cachedRepository) Update(ctx context.Context, existing, updated *book.Book) (*book.Book, error) {
	saved, err := r.next.Update(ctx, existing, updated)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, existing.ID)
	return saved, nil
}

func (r *cachedRepository) Delete(ctx context.Context, b *book.Book) error {
	if err := r.next.Delete(ctx, b); err != nil {
		return err
	}
	r.evict(ctx, b.ID)
	return nil
}

func (r *cachedRepository) GetAll(ctx context.Context) ([]*book.Book, error) {
	return r.next.GetAll(ctx)
}

func (r *cachedRepository) GetByID(ctx context.Context, id string) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cached cachedBook
	var hit bool
	err := r.breaker.Execute(func() error {
		var getErr error
		hit, getErr = r.cache.Get(ctx, r.key(id), &cached)
		return getErr
	})

	switch {
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		r.count("error")
		log.Ctx(ctx).Warn().Err(err).Str("book_id", id).Msg("读取图书缓存失败,回源查询")
	case hit:
		r.count("hit")
		return book.NewBook(cached.ID, cached.Title, cached.Author, cached.ISBN), nil
	default:
		r.count("miss")
	}

	b, err := r.next.GetByID(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	r.store(ctx, b)
	return b, nil
}

func (r *cachedRepository) store(ctx context.Context, b *book.Book) {
	if ctx.Err() != nil {
		return
	}
	value := cachedBook{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN}
	err := r.breaker.Execute(func() error {
		return r.cache.Set(ctx, r.key(b.ID), value, r.ttl)
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("book_id", b.ID).Msg("写入图书缓存失败")
	}
}

// evict 删除失败时缓存可能残留旧值,最长保留ttl
// 主存储已写入成功,调用方随后取消也要完成删除
func (r *cachedRepository) evict(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	err := r.breaker.Execute(func() error {
		return r.cache.Delete(ctx, r.key(id))
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("book_id", id).Msg("删除图书缓存失败")
	}
}

func (r *cachedRepository) count(result string) {
	metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": result})
}
