package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library/pkg/circuitbreaker"
)

var errRedisDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

// fakeCache 内存版Cache,可注入故障
type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	broken bool
	gets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if c.broken {
		return false, errRedisDown
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.broken {
		return errRedisDown
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.broken {
		return errRedisDown
	}
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *fakeCache) setBroken(v bool) {
	c.mu.Lock()
	c.broken = v
	c.mu.Unlock()
}

// countingRepo 统计主存储GetByID调用次数
type countingRepo struct {
	book.Repository
	mu    sync.Mutex
	reads int
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*book.Book, error) {
	r.mu.Lock()
	r.reads++
	r.mu.Unlock()
	return r.Repository.GetByID(ctx, id)
}

func (r *countingRepo) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

const testPrefix = "test:book:"

func newTestRepo(t *testing.T) (book.Repository, *countingRepo, *fakeCache) {
	t.Helper()
	repo, primary, cache, _ := newTestRepoWithBreaker(t)
	return repo, primary, cache
}

func newTestRepoWithBreaker(t *testing.T) (book.Repository, *countingRepo, *fakeCache, *circuitbreaker.CircuitBreaker) {
	t.Helper()
	primary := &countingRepo{Repository: memory.NewBookRepository()}
	cache := newFakeCache()
	breaker := circuitbreaker.New("book-cache-test", circuitbreaker.Settings{
		Timeout:      time.Minute,
		ReadyToTrip:  func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
		IsSuccessful: circuitbreaker.IgnoreContextErrors,
	})
	return NewCachedRepository(primary, cache, breaker, time.Minute, testPrefix), primary, cache, breaker
}

func sampleBook() *book.Book {
	return book.NewBook("0d6a3b0e-8f1f-4c57-9d2c-000000000001", "Go语言实战", "William Kennedy", "9787115428028")
}

func TestCachedRepository_AddPopulatesCache(t *testing.T) {
	ctx := context.Background()
	repo, primary, cache := newTestRepo(t)

	_, err := repo.Add(ctx, sampleBook())
	require.NoError(t, err)
	assert.True(t, cache.has(testPrefix+sampleBook().ID))

	got, err := repo.GetByID(ctx, sampleBook().ID)
	require.NoError(t, err)
	assert.Equal(t, sampleBook(), got)
	assert.Equal(t, 0, primary.readCount(), "命中缓存不应回源")
}

func TestCachedRepository_MissFillsCache(t *testing.T) {
	ctx := context.Background()
	repo, primary, cache := newTestRepo(t)

	// 绕过缓存直接写主存储
	_, err := primary.Add(ctx, sampleBook())
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, sampleBook().ID)
	require.NoError(t, err)
	assert.Equal(t, sampleBook(), got)
	assert.Equal(t, 1, primary.readCount())
	assert.True(t, cache.has(testPrefix+sampleBook().ID))

	_, err = repo.GetByID(ctx, sampleBook().ID)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.readCount())
}

func TestCachedRepository_AbsentNotCached(t *testing.T) {
	ctx := context.Background()
	repo, primary, cache := newTestRepo(t)

	got, err := repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, cache.has(testPrefix+"missing"))

	_, _ = repo.GetByID(ctx, "missing")
	assert.Equal(t, 2, primary.readCount())
}

func TestCachedRepository_UpdateAndDeleteEvict(t *testing.T) {
	ctx := context.Background()
	repo, _, cache := newTestRepo(t)

	existing, err := repo.Add(ctx, sampleBook())
	require.NoError(t, err)

	updated := book.NewBook(existing.ID, "Go语言实战(第2版)", "William Kennedy", "9781234567897")
	_, err = repo.Update(ctx, existing, updated)
	require.NoError(t, err)
	assert.False(t, cache.has(testPrefix+existing.ID))

	got, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go语言实战(第2版)", got.Title)

	require.NoError(t, repo.Delete(ctx, got))
	assert.False(t, cache.has(testPrefix+existing.ID))

	got, err = repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCachedRepository_FailedWriteLeavesCache(t *testing.T) {
	ctx := context.Background()
	repo, _, cache := newTestRepo(t)

	first, err := repo.Add(ctx, sampleBook())
	require.NoError(t, err)

	second := book.NewBook("0d6a3b0e-8f1f-4c57-9d2c-000000000002", "另一本书", "作者", "9781234567897")
	_, err = repo.Add(ctx, second)
	require.NoError(t, err)

	// ISBN冲突,主存储拒绝,缓存保持不变
	conflict := book.NewBook(first.ID, first.Title, first.Author, second.ISBN)
	_, err = repo.Update(ctx, first, conflict)
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)
	assert.True(t, cache.has(testPrefix+first.ID))
}

func TestCachedRepository_FallsBackWhenCacheDown(t *testing.T) {
	ctx := context.Background()
	repo, primary, cache := newTestRepo(t)

	cache.setBroken(true)

	saved, err := repo.Add(ctx, sampleBook())
	require.NoError(t, err, "缓存故障不应影响写入")

	// 两次失败后熔断器打开
	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved, got)
	}
	assert.Equal(t, 3, primary.readCount())
	assert.LessOrEqual(t, cache.gets, 1, "熔断打开后不应再访问缓存")

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCachedRepository_CanceledCallerKeepsBreakerClosed(t *testing.T) {
	repo, primary, cache, breaker := newTestRepoWithBreaker(t)

	saved, err := repo.Add(context.Background(), sampleBook())
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 5; i++ {
		got, err := repo.GetByID(canceled, saved.ID)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, got)
	}
	assert.Equal(t, circuitbreaker.StateClosed, breaker.State())
	assert.Zero(t, breaker.Counts().TotalFailures)

	got, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Positive(t, cache.gets, "取消的请求之后缓存仍应被访问")
	assert.Zero(t, primary.readCount(), "应命中缓存")
}

func TestCachedRepository_DeadlineDuringCacheRead(t *testing.T) {
	primary := &countingRepo{Repository: memory.NewBookRepository()}
	breaker := circuitbreaker.New("book-cache-test", circuitbreaker.Settings{
		ReadyToTrip:  func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
		IsSuccessful: circuitbreaker.IgnoreContextErrors,
	})
	repo := NewCachedRepository(primary, blockingCache{}, breaker, time.Minute, testPrefix)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := repo.GetByID(ctx, "any")
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, circuitbreaker.StateClosed, breaker.State())
	assert.Zero(t, primary.readCount(), "调用方超时后不应回源")
}

// blockingCache Get一直阻塞到调用方ctx结束
type blockingCache struct {
	Cache
}

func (blockingCache) Get(ctx context.Context, _ string, _ interface{}) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}
