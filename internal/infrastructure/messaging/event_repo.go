package messaging

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/library/internal/domain/book"
)

// eventRepository 在写操作成功后发布图书事件
// 发布失败只记录日志,不影响写操作结果
type eventRepository struct {
	next      book.Repository
	publisher Publisher
	now       func() time.Time
}

// NewEventRepository 创建发布事件的图书仓储
func NewEventRepository(next book.Repository, publisher Publisher) book.Repository {
	return &eventRepository{
		next:      next,
		publisher: publisher,
		now:       time.Now,
	}
}

func (r *eventRepository) Add(ctx context.Context, b *book.Book) (*book.Book, error) {
	saved, err := r.next.Add(ctx, b)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, RoutingKeyBookCreated, saved)
	return saved, nil
}

func (r *eventRepository) Update(ctx context.Context, existing, updated *book.Book) (*book.Book, error) {
	saved, err := r.next.Update(ctx, existing, updated)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, RoutingKeyBookUpdated, saved)
	return saved, nil
}

func (r *eventRepository) Delete(ctx context.Context, b *book.Book) error {
	if err := r.next.Delete(ctx, b); err != nil {
		return err
	}
	r.publish(ctx, RoutingKeyBookDeleted, b)
	return nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*book.Book, error) {
	return r.next.GetAll(ctx)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*book.Book, error) {
	return r.next.GetByID(ctx, id)
}

func (r *eventRepository) publish(ctx context.Context, routingKey string, b *book.Book) {
	event := newBookEvent(routingKey, b, r.now())
	if err := r.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Ctx(ctx).Error().
			Err(err).
			Str("routing_key", routingKey).
			Str("book_id", b.ID).
			Msg("发布图书事件失败")
	}
}
