package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/config"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	inboxKeyPrefix  = "orders:inbox"
	inboxProcessing = "processing"
	inboxDone       = "done"
	defaultClaimTTL = 5 * time.Minute
)

type keyStore interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

type redisKeyStore struct {
	client redis.UniversalClient
}

func (s *redisKeyStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

func (s *redisKeyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Get returns "" for a missing key.
func (s *redisKeyStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (s *redisKeyStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// NewRedisClient builds a client from a redis:// URL or a plain address and pings it.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid redis url")
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to ping redis")
	}
	return client, nil
}

// RedisInbox drops redeliveries of events a consumer already handled. It is a
// fast path only: handlers stay idempotent on their own.
//
// A worker first claims the event with a short-lived "processing" key. The key
// becomes "done" only after the handler succeeds; any other outcome, panics
// included, releases the claim so the redelivery runs again.
type RedisInbox struct {
	store    keyStore
	consumer string
	ttl      time.Duration
	claimTTL time.Duration
	log      *logger.Logger
}

func NewRedisInbox(client redis.UniversalClient, consumer string, ttl time.Duration, log *logger.Logger) *RedisInbox {
	return newInbox(&redisKeyStore{client: client}, consumer, ttl, log)
}

func newInbox(store keyStore, consumer string, ttl time.Duration, log *logger.Logger) *RedisInbox {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisInbox{store: store, consumer: consumer, ttl: ttl, claimTTL: defaultClaimTTL, log: log}
}

// WithClaimTTL bounds how long an in-flight claim blocks other workers. It
// should cover the queue visibility timeout.
func (i *RedisInbox) WithClaimTTL(ttl time.Duration) *RedisInbox {
	if ttl > 0 {
		i.claimTTL = ttl
	}
	return i
}

// Claim marks the event as in flight. When it is already claimed, state tells
// whether the holder finished ("done") or is still working ("processing").
func (i *RedisInbox) Claim(ctx context.Context, eventID string) (claimed bool, state string, err error) {
	key := i.key(eventID)
	claimed, err = i.store.SetNX(ctx, key, inboxProcessing, i.claimTTL)
	if err != nil || claimed {
		return claimed, "", err
	}
	state, err = i.store.Get(ctx, key)
	return false, state, err
}

// MarkDone records a successful run for the idempotency TTL.
func (i *RedisInbox) MarkDone(ctx context.Context, eventID string) error {
	return i.store.Set(ctx, i.key(eventID), inboxDone, i.ttl)
}

func (i *RedisInbox) Release(ctx context.Context, eventID string) error {
	return i.store.Del(ctx, i.key(eventID))
}

func (i *RedisInbox) key(eventID string) string {
	return fmt.Sprintf("%s:%s:%s", inboxKeyPrefix, i.consumer, eventID)
}

// Wrap returns a handler that skips events already done and asks for a retry
// while another worker holds the claim. Redis outages fall through to next.
func (i *RedisInbox) Wrap(next events.EventHandler) events.EventHandler {
	return events.EventHandlerFunc(func(ctx context.Context, event *events.Event) error {
		eventID := event.ID.String()

		claimed, state, err := i.Claim(ctx, eventID)
		if err != nil {
			i.log.Error(ctx, "inbox check failed", err)
			return next.Handle(ctx, event)
		}
		if !claimed {
			if state == inboxDone {
				i.log.Debug(ctx, "duplicate event skipped")
				return nil
			}
			return apperrors.Newf(apperrors.CodeConcurrencyConflict, "event %s is being handled by another worker", eventID)
		}

		done := false
		defer func() {
			if done {
				return
			}
			if relErr := i.Release(context.WithoutCancel(ctx), eventID); relErr != nil {
				i.log.Error(ctx, "failed to release inbox claim", relErr)
			}
		}()

		if err := next.Handle(ctx, event); err != nil {
			return err
		}
		done = true
		if err := i.MarkDone(context.WithoutCancel(ctx), eventID); err != nil {
			i.log.Error(ctx, "failed to mark event done", err)
		}
		return nil
	})
}
