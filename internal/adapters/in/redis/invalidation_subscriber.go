// Package redis listens for catalog invalidations published by any instance
// and refreshes the matching local catalog source.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	redisadapter "heblo/internal/adapters/out/redis"

	"github.com/redis/go-redis/v9"
)

var ErrSubscriptionRunning = errors.New("invalidation subscription already running")

type invalidationHandler interface {
	HandleInvalidation(ctx context.Context, source string) error
}

// InvalidationSubscriber feeds messages from the invalidation channel into the
// catalog refresher, one at a time in arrival order.
type InvalidationSubscriber struct {
	client  *redis.Client
	channel string
	handler invalidationHandler
	logger  *slog.Logger

	mu        sync.Mutex
	running   bool
	ready     chan struct{}
	readyOnce sync.Once
}

func NewInvalidationSubscriber(
	client *redis.Client,
	channel string,
	handler invalidationHandler,
	logger *slog.Logger,
) *InvalidationSubscriber {
	if channel == "" {
		channel = redisadapter.DefaultChannel
	}
	return &InvalidationSubscriber{
		client:  client,
		channel: channel,
		handler: handler,
		logger:  logger.With("component", "InvalidationSubscriber"),
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the subscription is confirmed by Redis.
func (s *InvalidationSubscriber) Ready() <-chan struct{} {
	return s.ready
}

// Run subscribes and blocks until ctx is done or the channel is closed.
// Malformed messages and handler failures are logged and skipped.
func (s *InvalidationSubscriber) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSubscriptionRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}
	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.InfoContext(ctx, "subscribed to catalog invalidations", "channel", s.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "invalidation subscription stopped")
			return nil
		case msg, ok := <-messages:
			if !ok {
				s.logger.WarnContext(ctx, "invalidation channel closed")
				return nil
			}
			s.dispatch(ctx, msg.Payload)
		}
	}
}

func (s *InvalidationSubscriber) dispatch(ctx context.Context, payload string) {
	var message redisadapter.InvalidationMessage
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		s.logger.ErrorContext(ctx, "failed to decode invalidation", "payload", payload, "error", err)
		return
	}

	if err := s.handler.HandleInvalidation(ctx, message.Source); err != nil {
		s.logger.ErrorContext(ctx, "failed to handle invalidation",
			"source", message.Source,
			"origin", message.Origin,
			"error", err)
		return
	}

	s.logger.DebugContext(ctx, "invalidation handled", "source", message.Source, "origin", message.Origin)
}
