package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/jwalitptl/hospital-api/pkg/messaging"
)

type Config struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

// NewClient parses the URL, applies pool settings and checks the
// connection.
func NewClient(ctx context.Context, config Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if config.MaxRetries > 0 {
		opts.MaxRetries = config.MaxRetries
	}
	if config.RetryBackoff > 0 {
		opts.MinRetryBackoff = config.RetryBackoff
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisBroker publishes JSON messages over Redis pub/sub behind a circuit
// breaker.
type RedisBroker struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
}

type BreakerSettings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "redis-broker",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          5 * time.Second,
		FailureThreshold: 5,
	}
}

func NewRedisBroker(client *redis.Client, settings BreakerSettings) *RedisBroker {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})

	return &RedisBroker{
		client: client,
		cb:     cb,
	}
}

var _ messaging.Broker = (*RedisBroker)(nil)

func (b *RedisBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = b.cb.Execute(func() (interface{}, error) {
		return nil, b.client.Publish(ctx, channel, payload).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// State exposes the breaker state for readiness reporting.
func (b *RedisBroker) State() gobreaker.State {
	return b.cb.State()
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
