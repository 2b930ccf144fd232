package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/xiebiao/library/internal/domain/book"
	bookmock "github.com/xiebiao/library/internal/domain/book/mock"
	"github.com/xiebiao/library/internal/infrastructure/messaging/mock"
)

var fixedNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*eventRepository, *bookmock.MockRepository, *mock.MockPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	next := bookmock.NewMockRepository(ctrl)
	pub := mock.NewMockPublisher(ctrl)

	repo := NewEventRepository(next, pub).(*eventRepository)
	repo.now = func() time.Time { return fixedNow }
	return repo, next, pub
}

func sampleBook() *book.Book {
	return book.NewBook("0d6a3b0e-8f1f-4c57-9d2c-000000000001", "Go语言实战", "William Kennedy", "9787115428028")
}

func TestEventRepository_PublishesOnSuccess(t *testing.T) {
	ctx := context.Background()
	b := sampleBook()

	t.Run("Add", func(t *testing.T) {
		repo, next, pub := newTestRepo(t)
		next.EXPECT().Add(ctx, b).Return(b, nil)
		pub.EXPECT().Publish(ctx, RoutingKeyBookCreated, BookEvent{
			Type: RoutingKeyBookCreated, BookID: b.ID, ISBN: b.ISBN, OccurredAt: fixedNow,
		}).Return(nil)

		saved, err := repo.Add(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, b, saved)
	})

	t.Run("Update", func(t *testing.T) {
		repo, next, pub := newTestRepo(t)
		updated := book.NewBook(b.ID, "新书名", b.Author, "9781234567897")
		next.EXPECT().Update(ctx, b, updated).Return(updated, nil)
		pub.EXPECT().Publish(ctx, RoutingKeyBookUpdated, BookEvent{
			Type: RoutingKeyBookUpdated, BookID: b.ID, ISBN: "9781234567897", OccurredAt: fixedNow,
		}).Return(nil)

		_, err := repo.Update(ctx, b, updated)
		require.NoError(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		repo, next, pub := newTestRepo(t)
		next.EXPECT().Delete(ctx, b).Return(nil)
		pub.EXPECT().Publish(ctx, RoutingKeyBookDeleted, gomock.Any()).Return(nil)

		require.NoError(t, repo.Delete(ctx, b))
	})
}

func TestEventRepository_NoEventOnFailure(t *testing.T) {
	ctx := context.Background()
	b := sampleBook()
	repo, next, _ := newTestRepo(t)

	// 未设置Publish期望,调用即失败
	next.EXPECT().Add(ctx, b).Return(nil, book.ErrISBNDuplicate)
	_, err := repo.Add(ctx, b)
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)

	next.EXPECT().Delete(ctx, b).Return(errors.New("db down"))
	assert.Error(t, repo.Delete(ctx, b))
}

func TestEventRepository_PublishFailureIgnored(t *testing.T) {
	ctx := context.Background()
	b := sampleBook()
	repo, next, pub := newTestRepo(t)

	next.EXPECT().Add(ctx, b).Return(b, nil)
	pub.EXPECT().Publish(ctx, RoutingKeyBookCreated, gomock.Any()).Return(errors.New("amqp: channel closed"))

	saved, err := repo.Add(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, b, saved)
}

func TestEventRepository_ReadsPassThrough(t *testing.T) {
	ctx := context.Background()
	b := sampleBook()
	repo, next, _ := newTestRepo(t)

	next.EXPECT().GetByID(ctx, b.ID).Return(b, nil)
	next.EXPECT().GetAll(ctx).Return([]*book.Book{b}, nil)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), RoutingKeyBookCreated, BookEvent{}))
	assert.NoError(t, p.Close())
}
