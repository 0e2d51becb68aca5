package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"heblo/internal/core/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Pub/Sub channel carrying catalog invalidations.
const DefaultChannel = "heblo:catalog:invalidations"

// InvalidationMessage is the payload published for every invalidated source.
type InvalidationMessage struct {
	Source      string    `json:"source"`
	Origin      string    `json:"origin"`
	PublishedAt time.Time `json:"publishedAt"`
}

// CatalogInvalidator implements ports.CatalogInvalidator on top of Redis
// Pub/Sub. When publishing fails the invalidation is handed to the fallback,
// if one is set, so at least the local instance stays current.
type CatalogInvalidator struct {
	client   *redis.Client
	channel  string
	origin   string
	fallback ports.CatalogInvalidator
	logger   *slog.Logger
}

type CatalogInvalidatorOption func(*CatalogInvalidator)

func WithChannel(channel string) CatalogInvalidatorOption {
	return func(i *CatalogInvalidator) {
		i.channel = channel
	}
}

func WithFallback(fallback ports.CatalogInvalidator) CatalogInvalidatorOption {
	return func(i *CatalogInvalidator) {
		i.fallback = fallback
	}
}

// NewCatalogInvalidator creates a publisher. The caller keeps ownership of client.
func NewCatalogInvalidator(
	client *redis.Client,
	logger *slog.Logger,
	opts ...CatalogInvalidatorOption,
) *CatalogInvalidator {
	i := &CatalogInvalidator{
		client:  client,
		channel: DefaultChannel,
		origin:  uuid.NewString(),
		logger:  logger.With("component", "RedisCatalogInvalidator"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Origin identifies this publisher in outgoing messages.
func (i *CatalogInvalidator) Origin() string {
	return i.origin
}

func (i *CatalogInvalidator) Invalidate(ctx context.Context, source string) {
	payload, err := json.Marshal(InvalidationMessage{
		Source:      source,
		Origin:      i.origin,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		i.logger.ErrorContext(ctx, "failed to marshal invalidation", "source", source, "error", err)
		i.fallBack(ctx, source)
		return
	}

	if err = i.client.Publish(ctx, i.channel, payload).Err(); err != nil {
		i.logger.WarnContext(ctx, "failed to publish invalidation",
			"source", source,
			"channel", i.channel,
			"error", err)
		i.fallBack(ctx, source)
		return
	}

	i.logger.DebugContext(ctx, "invalidation published", "source", source, "channel", i.channel)
}

func (i *CatalogInvalidator) fallBack(ctx context.Context, source string) {
	if i.fallback != nil {
		i.fallback.Invalidate(ctx, source)
	}
}
