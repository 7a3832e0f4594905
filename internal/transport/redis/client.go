package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connectfour-client/internal/transport"
)

var ErrNotConnected = errors.New("redis client is not connected")

// Client is a broker connection over Redis pub/sub. Logical destinations map
// directly onto Redis channel names.
type Client struct {
	logger *slog.Logger
	addr   string

	mu            sync.Mutex
	client        *redis.Client
	subscriptions []*redis.PubSub
	disconnected  bool

	ctx    context.Context
	cancel context.CancelFunc

	failureOnce sync.Once
	onFailure   func(err error)
}

func New(logger *slog.Logger, addr string) *Client {
	return &Client{
		logger: logger.With("component", "redis"),
		addr:   addr,
	}
}

func (that *Client) Connect(ctx context.Context) error {
	log := that.logger.With("method", "Connect")

	client := redis.NewClient(&redis.Options{
		Addr: that.addr,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	that.mu.Lock()
	that.client = client
	that.ctx = connCtx
	that.cancel = cancel
	that.disconnected = false
	that.mu.Unlock()

	log.Info("connected to Redis", "addr", that.addr)

	return nil
}

func (that *Client) Subscribe(destination string, handler transport.MessageHandler) error {
	that.mu.Lock()
	client := that.client
	ctx := that.ctx
	that.mu.Unlock()

	if client == nil {
		return ErrNotConnected
	}

	pubsub := client.Subscribe(ctx, destination)

	// Receive blocks until the server confirms the subscription, so a message
	// published right after Subscribe returns cannot be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", destination, err)
	}

	that.mu.Lock()
	that.subscriptions = append(that.subscriptions, pubsub)
	that.mu.Unlock()

	go that.pump(destination, pubsub, handler)

	return nil
}

func (that *Client) pump(destination string, pubsub *redis.PubSub, handler transport.MessageHandler) {
	for message := range pubsub.Channel() {
		handler([]byte(message.Payload))
	}

	that.mu.Lock()
	disconnected := that.disconnected
	that.mu.Unlock()

	if !disconnected {
		that.failure(fmt.Errorf("subscription %s closed unexpectedly", destination))
	}
}

func (that *Client) Publish(destination string, payload []byte) error {
	that.mu.Lock()
	client := that.client
	ctx := that.ctx
	that.mu.Unlock()

	if client == nil {
		return ErrNotConnected
	}

	if err := client.Publish(ctx, destination, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", destination, err)
	}

	return nil
}

func (that *Client) Disconnect() error {
	log := that.logger.With("method", "Disconnect")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.client == nil || that.disconnected {
		return nil
	}

	that.disconnected = true

	for _, pubsub := range that.subscriptions {
		if err := pubsub.Close(); err != nil {
			log.Warn("failed to close subscription", "error", err)
		}
	}

	that.subscriptions = nil
	that.cancel()

	if err := that.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	log.Info("disconnected from Redis")

	return nil
}

func (that *Client) OnFailure(hook func(err error)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onFailure = hook
}

func (that *Client) failure(err error) {
	that.failureOnce.Do(func() {
		that.logger.Error("Redis connection failed", "error", err)

		that.mu.Lock()
		hook := that.onFailure
		that.mu.Unlock()

		if hook != nil {
			hook(err)
		}
	})
}
