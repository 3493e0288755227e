package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/services"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every message channel.
	Prefix string
}

// EventBus publishes service messages on Redis pub/sub channels.
type EventBus struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewEventBus(ctx context.Context, log *logger.Logger, opts Options) (*EventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = "materialhub"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &EventBus{
		log:    log.With("service", "RedisEventBus"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

// Channel is the pub/sub channel a message is delivered on.
func (b *EventBus) Channel(msg services.Message) string {
	return ChannelName(b.prefix, msg.Channel)
}

func ChannelName(prefix, channel string) string {
	if channel == "" {
		return prefix
	}
	return prefix + ":" + channel
}

func (b *EventBus) Publish(ctx context.Context, msg services.Message) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, b.Channel(msg), raw).Err(); err != nil {
		b.log.Warn("Redis publish failed", "event", msg.Event, "error", err)
		return err
	}
	return nil
}

func (b *EventBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
