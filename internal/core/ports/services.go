package ports

import (
	"context"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// EventPublisher announces directory changes to a message broker.
type EventPublisher interface {
	PublishChange(ctx context.Context, event domain.ChangeEvent) error
}

// EventSubscriber receives directory change events.
type EventSubscriber interface {
	SubscribeChanges(ctx context.Context, handler func(ctx context.Context, event domain.ChangeEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}
