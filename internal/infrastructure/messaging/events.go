package messaging

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
)

// 图书事件的routing key
const (
	RoutingKeyBookCreated = "book.created"
	RoutingKeyBookUpdated = "book.updated"
	RoutingKeyBookDeleted = "book.deleted"
)

// BookEvent 图书变更事件
type BookEvent struct {
	Type       string    `json:"type"`
	BookID     string    `json:"book_id"`
	ISBN       string    `json:"isbn"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newBookEvent(eventType string, b *book.Book, now time.Time) BookEvent {
	return BookEvent{
		Type:       eventType,
		BookID:     b.ID,
		ISBN:       b.ISBN,
		OccurredAt: now.UTC(),
	}
}
